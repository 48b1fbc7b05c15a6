package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/artifacts"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/config"
	"github.com/Vebhav1052/data-analysis-portfolio-project/pkg/insights"
)

func main() {
	// Define command-line flags
	var (
		// Commands
		runCmd     = flag.Bool("run", false, "Run the full analysis pipeline")
		summaryCmd = flag.Bool("summary", false, "Print the latest summary statistics")
		reportCmd  = flag.Bool("report", false, "Print the latest cleaning report")

		// File options
		configPath = flag.String("config", "", "Path to a JSON config file")
		inputFile  = flag.String("input", "", "Path to the retail CSV input file")
		outputDir  = flag.String("output", "", "Directory for pipeline artifacts")
		utf8Input  = flag.Bool("utf8", false, "Treat the input as UTF-8 instead of Latin-1")
		cutoff     = flag.String("cutoff", "", "Reference date for recency (YYYY-MM-DD)")
		noExcel    = flag.Bool("no-excel", false, "Skip the XLSX workbook")

		// Store options
		noExport = flag.Bool("no-export", false, "Skip the relational store export")
		dbDriver = flag.String("db-driver", "", "Store driver (sqlite3 or postgres)")
		dbDSN    = flag.String("db-dsn", "", "Store connection string")
	)

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Override with command-line options if provided
	if *inputFile != "" {
		cfg.InputFile = *inputFile
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *utf8Input {
		cfg.UTF8Input = true
	}
	if *cutoff != "" {
		cfg.CutoffDate = *cutoff
	}
	if *noExcel {
		cfg.WriteExcel = false
	}
	if *noExport {
		cfg.ExportStore = false
	}
	if *dbDriver != "" {
		cfg.StoreDriver = *dbDriver
	}
	if *dbDSN != "" {
		cfg.StoreDSN = *dbDSN
	}

	switch {
	case *runCmd:
		result, err := insights.NewService(cfg).Run(context.Background())
		if err != nil {
			log.Fatalf("Pipeline run failed: %v", err)
		}
		fmt.Printf("Run %s complete: %d rows in, %d rows out, %d customers\n",
			result.RunID, result.InitialRows, result.FinalRows, result.Customers)
		fmt.Printf("Artifacts written to %s\n", result.OutputDir)

	case *summaryCmd:
		summary, err := artifacts.NewReader(cfg.OutputDir).ReadSummary()
		if err != nil {
			log.Fatalf("Failed to read summary: %v", err)
		}
		printJSON(summary)

	case *reportCmd:
		report, err := artifacts.NewReader(cfg.OutputDir).ReadReport()
		if err != nil {
			log.Fatalf("Failed to read cleaning report: %v", err)
		}
		printJSON(report)

	default:
		fmt.Println("No command specified. Use one of:")
		fmt.Println("  -run      Run the full analysis pipeline")
		fmt.Println("  -summary  Print the latest summary statistics")
		fmt.Println("  -report   Print the latest cleaning report")
		flag.PrintDefaults()
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal output: %v", err)
	}
	fmt.Println(string(data))
}
