package logs

import (
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	Logger  *log.Logger
	logFile *os.File
	mu      sync.Mutex
)

// The terminal belongs to Bubble Tea, so all logging goes to a file.
// It lives next to the config file; when the user config dir cannot be
// resolved the log falls back to the working directory.
func init() {
	path := "shipnote.log"
	if configDir, err := os.UserConfigDir(); err == nil {
		dir := filepath.Join(configDir, "shipnote")
		if err := os.MkdirAll(dir, 0755); err == nil {
			path = filepath.Join(dir, "shipnote.log")
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	logFile = f
	Logger = log.New(f, "[shipnote] ", log.LstdFlags|log.Lshortfile)
}

// Close closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return logFile.Close()
	}
	return nil
}
