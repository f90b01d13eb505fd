package main

import (
	"os"

	"github.com/calderos/hollowdeep/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
