package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"terra/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	pretty := flag.Bool("pretty", false, "human-readable log output")
	flag.Parse()

	if *pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Msgf("config: %v", err)
	}

	hub := server.NewHub(cfg)
	mux := http.NewServeMux()
	hub.Routes(mux)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	log.Info().Msgf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatal().Msgf("server: %v", err)
	}
}
