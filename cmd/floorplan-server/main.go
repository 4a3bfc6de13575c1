package main

import (
	"flag"

	"github.com/charmbracelet/log"

	"github.com/flywave/go-floorplan/server"
)

func main() {
	cfgPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := server.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal("failed to start server", "err", err)
	}
	if err := srv.Listen(); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}
