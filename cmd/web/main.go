// Package main is the entry point for the vps-compare web server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vps-compare/internal/config"
	"github.com/vps-compare/internal/controller"
	"github.com/vps-compare/internal/dataset"
	"github.com/vps-compare/internal/domain"
	"github.com/vps-compare/internal/provider"
	"github.com/vps-compare/internal/web"
)

func main() {
	port := flag.Int("port", 0, "Port to run the web server on (overrides config)")
	flag.Parse()

	cfg := config.Get()
	if *port > 0 {
		cfg.Server.Port = *port
	}

	catalog, err := dataset.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	mockSrc, err := provider.ForSource(domain.MockSource, catalog, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	server := web.NewServer(controller.New(mockSrc, cfg), cfg)
	if realSrc, err := provider.ForSource(domain.RealSource, catalog, cfg); err == nil {
		server.RegisterSource(controller.New(realSrc, cfg))
	}

	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
