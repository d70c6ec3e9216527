// Package logging wires the stdlib logger to both stderr and a per-process
// timestamped log file under logs/.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Setup creates the log directory if needed, opens a timestamped log file
// and mirrors all log output to it. Returns the opened file so the caller
// can close it on shutdown. If the file cannot be created, logging falls
// back to stderr only.
func Setup(dir string) (*os.File, error) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	name := time.Now().Format("2006_01_02_15_04_05") + ".log"
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	log.SetOutput(io.MultiWriter(os.Stderr, f))
	log.Printf("Logging to %s", path)
	return f, nil
}
