// Package journal records a run as compressed JSONL: one header line
// with the run identity, then one line per executed turn. A recorded
// run can be replayed deterministically from the header's seed plus the
// player action stream.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Header is the first line of every journal file.
type Header struct {
	RunID     string    `json:"run_id"`
	Seed      int64     `json:"seed"`
	StartedAt time.Time `json:"started_at"`
}

// EventRecord is a flattened world event.
type EventRecord struct {
	Kind   string `json:"kind"`
	Actor  string `json:"actor"`
	Target string `json:"target,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Damage int    `json:"damage,omitempty"`
}

// TurnRecord is one executed turn.
type TurnRecord struct {
	Seq    uint64        `json:"seq"`
	Time   uint64        `json:"time"`
	Actor  string        `json:"actor"`
	Action string        `json:"action"`
	Events []EventRecord `json:"events,omitempty"`
}

type line struct {
	Header *Header     `json:"header,omitempty"`
	Turn   *TurnRecord `json:"turn,omitempty"`
}

// Writer appends journal lines to a zstd-compressed file.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewWriter opens dir/<runID>.jsonl.zst and writes the header line.
func NewWriter(dir string, hdr Header) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	path := filepath.Join(dir, hdr.RunID+".jsonl.zst")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("journal: %w", err)
	}

	w := &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}
	if err := w.writeLine(line{Header: &hdr}); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// WriteTurn appends one turn record.
func (w *Writer) WriteTurn(rec TurnRecord) error {
	return w.writeLine(line{Turn: &rec})
}

func (w *Writer) writeLine(l line) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errEnc error
	if w.w != nil {
		_ = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		errEnc = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	return errEnc
}

// Read decodes a journal file into its header and turn stream.
func Read(path string) (Header, []TurnRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, fmt.Errorf("journal: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return Header{}, nil, fmt.Errorf("journal: %w", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var hdr Header
	var turns []TurnRecord
	first := true
	for sc.Scan() {
		var l line
		if err := json.Unmarshal(sc.Bytes(), &l); err != nil {
			return Header{}, nil, fmt.Errorf("journal: bad line: %w", err)
		}
		if first {
			if l.Header == nil {
				return Header{}, nil, fmt.Errorf("journal: missing header line")
			}
			hdr = *l.Header
			first = false
			continue
		}
		if l.Turn != nil {
			turns = append(turns, *l.Turn)
		}
	}
	if err := sc.Err(); err != nil {
		return Header{}, nil, fmt.Errorf("journal: %w", err)
	}
	if first {
		return Header{}, nil, fmt.Errorf("journal: empty file")
	}
	return hdr, turns, nil
}
