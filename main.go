package main

import (
	"os"

	"github.com/AlanSteinbarth/Audio2Tekst/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
