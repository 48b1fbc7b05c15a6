package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds the settings shared by the CLI, server and scheduler.
type Config struct {
	// Pipeline settings
	InputFile   string  `json:"input_file"`
	OutputDir   string  `json:"output_dir"`
	TimeLayout  string  `json:"time_layout"`
	UTF8Input   bool    `json:"utf8_input"`
	FenceK      float64 `json:"fence_k"`
	CutoffDate  string  `json:"cutoff_date"` // YYYY-MM-DD, empty means latest invoice
	WriteExcel  bool    `json:"write_excel"`
	ExportStore bool    `json:"export_store"`

	// Store settings
	StoreDriver string `json:"store_driver"`
	StoreDSN    string `json:"store_dsn"`

	// Server settings
	ServerHost string `json:"server_host"`
	ServerPort int    `json:"server_port"`

	// Scheduler settings
	Cron         string `json:"cron"`
	WatchInput   bool   `json:"watch_input"`
	DebounceSecs int    `json:"debounce_secs"`
	RunOnStartup bool   `json:"run_on_startup"`
}

// DefaultConfig returns a configuration with sensible defaults, overridable
// from the environment.
func DefaultConfig() *Config {
	return &Config{
		InputFile:    getEnv("INSIGHTS_INPUT", "data/online_retail.csv"),
		OutputDir:    getEnv("INSIGHTS_OUTPUT_DIR", "output"),
		TimeLayout:   getEnv("INSIGHTS_TIME_LAYOUT", "1/2/2006 15:04"),
		FenceK:       3.0,
		WriteExcel:   true,
		ExportStore:  true,
		StoreDriver:  getEnv("INSIGHTS_DB_DRIVER", "sqlite3"),
		StoreDSN:     getEnv("INSIGHTS_DB_DSN", "insights.db"),
		ServerHost:   getEnv("INSIGHTS_SERVER_HOST", "0.0.0.0"),
		ServerPort:   getEnvInt("INSIGHTS_SERVER_PORT", 8080),
		Cron:         getEnv("INSIGHTS_CRON", "0 2 * * *"),
		WatchInput:   true,
		DebounceSecs: getEnvInt("INSIGHTS_DEBOUNCE_SECS", 5),
		RunOnStartup: false,
	}
}

// LoadConfig reads a JSON config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Cutoff parses the configured cutoff date. A zero time means the pipeline
// should fall back to the latest invoice timestamp.
func (c *Config) Cutoff() (time.Time, error) {
	if c.CutoffDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.CutoffDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cutoff_date %q: %w", c.CutoffDate, err)
	}
	return t, nil
}

// Debounce returns the watch debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceSecs) * time.Second
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get integer environment variables with defaults
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		var intValue int
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}
