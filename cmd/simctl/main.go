package main

import (
	"os"

	"github.com/andresuchdata/safetystock-sim/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Keep stdout for reports
	logger.Configure(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("simctl failed")
	}
}
