package main

import (
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/FahimAnayet/gutter/internal/baseline"
	"github.com/FahimAnayet/gutter/internal/config"
	"github.com/FahimAnayet/gutter/internal/lsp"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	verbosity := flag.Int("verbosity", 1, "log verbosity")
	flag.Parse()

	// Set up logging
	commonlog.Configure(*verbosity, nil)

	// Create logs directory if it doesn't exist
	logsDir := filepath.Join(os.TempDir(), "gutter")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		log.Fatalf("Failed to create logs directory: %v", err)
	}

	// Open log file
	logFile, err := os.OpenFile(
		filepath.Join(logsDir, "gutter.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	// Set up multi-writer for logging
	multiWriter := io.MultiWriter(os.Stderr, logFile)
	log.SetOutput(multiWriter)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	log.Println("Starting gutter server...")

	// Load configuration
	path := *configPath
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			log.Fatalf("Failed to locate config: %v", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Open the baseline cache when enabled
	var cache *baseline.Cache
	if cfg.Cache.Enabled {
		cache, err = baseline.OpenCache(cfg.Cache.Path)
		if err != nil {
			log.Fatalf("Failed to open baseline cache: %v", err)
		}
		defer cache.Close()
	}

	// Initialize the server
	server, _, err := lsp.NewServer(cfg, baseline.NewProvider(cache))
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Run the server
	if err := server.RunStdio(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
