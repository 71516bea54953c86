package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/mariobadr/statistical-simulation/cmd"
)

func main() {
	// Default to a pretty console logger; --log-format json switches to JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	cmd.Execute()
}
