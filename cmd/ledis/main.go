package main

import (
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ledis/config"
	"ledis/server"
)

func main() {
	// Log with filename and line number. This writes to stderr, so it
	// should be thread safe.
	log.Logger = log.With().Caller().Logger()

	// Intercept interrupts so we can get more visibility into them.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func(c chan os.Signal) {
		<-c
		log.Info().Msg("interrupt: exiting")
		os.Exit(0)
	}(sigCh)

	configPath := flag.String(
		"config",
		"",
		"path to a YAML file containing your configuration",
	)
	level := flag.String(
		"level",
		"",
		`log level: "info", "debug", or "warn" (overrides the config file)`,
	)
	flag.Parse()

	conf := config.Default()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			log.Error().
				Str("config-path", *configPath).
				Err(err).
				Msg("We can't open the application config file")
			os.Exit(1)
		}
		conf, err = config.Parse(f)
		f.Close()
		if err != nil {
			log.Error().
				Str("config-path", *configPath).
				Err(err).
				Msg("We can't parse the application config file")
			os.Exit(1)
		}
	}

	logLevel := conf.LogLevel
	if *level != "" {
		logLevel = *level
	}
	switch logLevel {
	case "debug":
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	case "warn":
		log.Logger = log.Logger.Level(zerolog.WarnLevel)
	default:
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	log.Info().
		Str("addr", conf.ListenAddr).
		Str("snapshotDir", conf.SnapshotDir).
		Msg("starting the engine")

	gate := server.NewGate(conf.SnapshotDir)
	srv := server.NewServer(conf.ListenAddr, gate, conf.MaxRequestBytes())
	if err := srv.Start(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
