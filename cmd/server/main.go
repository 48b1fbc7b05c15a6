package main

import (
	"context"
	"flag"
	"log"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/artifacts"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/config"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/server"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/store"
	"github.com/Vebhav1052/data-analysis-portfolio-project/pkg/insights"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a JSON config file")
		host       = flag.String("host", "", "Host to bind")
		port       = flag.Int("port", 0, "Port to listen on")
		outputDir  = flag.String("output", "", "Artifact directory to serve")
		noStore    = flag.Bool("no-store", false, "Serve without the relational store")
		noRuns     = flag.Bool("no-runs", false, "Disable the pipeline run endpoint")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *host != "" {
		cfg.ServerHost = *host
	}
	if *port != 0 {
		cfg.ServerPort = *port
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	var st *store.Store
	if !*noStore {
		st, err = store.Open(store.Config{Driver: cfg.StoreDriver, DSN: cfg.StoreDSN})
		if err != nil {
			log.Printf("Warning: store unavailable, continuing without it: %v", err)
			st = nil
		} else {
			defer st.Close()
		}
	}

	var run server.RunFunc
	if !*noRuns {
		svc := insights.NewService(cfg)
		run = func(ctx context.Context) (string, error) {
			result, err := svc.Run(ctx)
			if err != nil {
				return "", err
			}
			return result.RunID, nil
		}
	}

	srv := server.NewServer(
		server.Config{Host: cfg.ServerHost, Port: cfg.ServerPort},
		artifacts.NewReader(cfg.OutputDir),
		st,
		run,
	)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
