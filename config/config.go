// Package config loads the game tuning file. Every field has a default
// so a missing file yields a playable setup; a present file overrides
// only the keys it names.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds all adjustable simulation parameters.
type Tuning struct {
	Scheduler SchedulerTuning `yaml:"scheduler"`
	World     WorldTuning     `yaml:"world"`
	Telemetry TelemetryTuning `yaml:"telemetry"`
}

// SchedulerTuning tunes the turn engine.
type SchedulerTuning struct {
	QueueCapacity    int    `yaml:"queue_capacity"`
	CleanupThreshold uint32 `yaml:"cleanup_threshold"`
	MaxTurnsPerPass  int    `yaml:"max_turns_per_pass"`
	RetryCap         int    `yaml:"retry_cap"`
	IdleCost         uint64 `yaml:"idle_cost"`
	// SpeedScaling switches action costs from the flat model to
	// base*100/speed. Off by default; the flat model is the documented
	// primary.
	SpeedScaling bool `yaml:"speed_scaling"`
}

// WorldTuning tunes map generation and population.
type WorldTuning struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Monsters     int    `yaml:"monsters"`
	Seed         int64  `yaml:"seed"`
	PlayerSpeed  uint32 `yaml:"player_speed"`
	MonsterSpeed uint32 `yaml:"monster_speed"`
	PlayerHP     int    `yaml:"player_hp"`
	MonsterHP    int    `yaml:"monster_hp"`
	AttackDamage int    `yaml:"attack_damage"`
}

// TelemetryTuning controls run recording.
type TelemetryTuning struct {
	DBPath     string `yaml:"db_path"`
	JournalDir string `yaml:"journal_dir"`
}

// Default returns the built-in tuning.
func Default() Tuning {
	return Tuning{
		Scheduler: SchedulerTuning{
			QueueCapacity:    10000,
			CleanupThreshold: 100,
			MaxTurnsPerPass:  50,
			RetryCap:         3,
			IdleCost:         100,
		},
		World: WorldTuning{
			Width:        80,
			Height:       40,
			Monsters:     12,
			PlayerSpeed:  100,
			MonsterSpeed: 100,
			PlayerHP:     20,
			MonsterHP:    5,
			AttackDamage: 2,
		},
		Telemetry: TelemetryTuning{
			DBPath:     "hollowdeep.db",
			JournalDir: "journal",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error;
// malformed YAML is.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
