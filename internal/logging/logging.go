// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Setup sets the log level and, when logFile is non-empty, mirrors log
// output to that file in addition to stderr.
func Setup(logFile string, verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if logFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		log.Warn("[Main] Couldn't create log directory: ", err.Error())
		return
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.Warn("[Main] Couldn't open log file: ", err.Error())
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
}
