package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/config"
	"github.com/Vebhav1052/data-analysis-portfolio-project/pkg/insights"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a JSON config file")
		cronSpec   = flag.String("cron", "", "Cron schedule for pipeline runs")
		noWatch    = flag.Bool("no-watch", false, "Disable the input file watcher")
		runNow     = flag.Bool("run-now", false, "Run the pipeline once on startup")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *cronSpec != "" {
		cfg.Cron = *cronSpec
	}
	if *noWatch {
		cfg.WatchInput = false
	}
	if *runNow {
		cfg.RunOnStartup = true
	}

	svc := insights.NewService(cfg)
	runPipeline := func(trigger string) {
		log.Printf("Pipeline run triggered by %s", trigger)
		if _, err := svc.Run(context.Background()); err != nil {
			log.Printf("Pipeline run failed: %v", err)
		}
	}

	if cfg.RunOnStartup {
		runPipeline("startup")
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Cron, func() { runPipeline("schedule") }); err != nil {
		log.Fatalf("Invalid cron schedule %q: %v", cfg.Cron, err)
	}
	c.Start()
	defer c.Stop()
	log.Printf("Scheduled pipeline runs with cron %q", cfg.Cron)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	if cfg.WatchInput {
		go func() {
			if err := watchInput(cfg.InputFile, cfg.Debounce(), runPipeline); err != nil {
				log.Printf("Input watcher stopped: %v", err)
			}
		}()
	}

	<-stop
	log.Println("Scheduler stopped")
}

// watchInput re-runs the pipeline when the input file changes. Writes are
// debounced so a slow copy triggers one run, not one per chunk.
func watchInput(inputFile string, debounce time.Duration, run func(trigger string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors and copies replace the file, which would
	// drop a watch on the file itself.
	if err := watcher.Add(filepath.Dir(inputFile)); err != nil {
		return err
	}
	log.Printf("Watching %s for changes", inputFile)

	var timer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != inputFile {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() { run("file change") })
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
