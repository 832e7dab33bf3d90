// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration knobs for the HTTP server, the inventory
// store, the update generator, and the AI query pipeline.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	CSVPath       string
	HistoryDBPath string
	HistoryLimit  int

	TickInterval     time.Duration
	EventsPerTickMin int
	EventsPerTickMax int
	EventWeights     []int // sale, restock, return, relocate, expiry
	ExpiryWindowDays int
	RandomSeed       int64 // 0 means time-seeded

	Sections []string
	Aisles   []string
	Shelves  []string

	RetrievalK   int
	GeminiAPIKey string
	GeminiModel  string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func i64env(key string, def int64) int64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

func listenv(key string, def []string) []string {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func weightsenv(key string, def []int) []int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	if len(parts) != len(def) {
		return def
	}
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return def
		}
		out[i] = n
	}
	return out
}

// Load collects configuration from the environment with defaults. A .env
// file in the working directory is honored when present.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),

		CSVPath:       getenv("INVENTORY_CSV_PATH", "./data/inventory.csv"),
		HistoryDBPath: getenv("HISTORY_DB_PATH", "./data/history.db"),
		HistoryLimit:  atoienv("HISTORY_LIMIT", 200),

		TickInterval:     durenvs("TICK_INTERVAL", 10),
		EventsPerTickMin: atoienv("EVENTS_PER_TICK_MIN", 2),
		EventsPerTickMax: atoienv("EVENTS_PER_TICK_MAX", 5),
		EventWeights:     weightsenv("EVENT_WEIGHTS", []int{30, 25, 20, 15, 10}),
		ExpiryWindowDays: atoienv("EXPIRY_WINDOW_DAYS", 7),
		RandomSeed:       i64env("RANDOM_SEED", 0),

		Sections: listenv("WAREHOUSE_SECTIONS", []string{
			"SectionA", "SectionB", "SectionC", "SectionD", "BulkStorage", "ColdStorage",
		}),
		Aisles: listenv("WAREHOUSE_AISLES", []string{
			"Aisle1", "Aisle2", "Aisle3", "Aisle4", "Aisle5", "Aisle6",
		}),
		Shelves: listenv("WAREHOUSE_SHELVES", []string{
			"Shelf1", "Shelf2", "Shelf3", "Shelf4", "Shelf5",
		}),

		RetrievalK:   atoienv("RETRIEVAL_K", 5),
		GeminiAPIKey: getenv("GEMINI_API_KEY", ""),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-1.5-flash"),
	}
}
