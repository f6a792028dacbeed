// Package server implements the JSON API surface of the analyzer.
package server

import (
	"os"
	"time"

	"github.com/getsentry/raven-go"
	log "github.com/sirupsen/logrus"

	"github.com/dermoscan/dermoscan/internal/classifier"
	"github.com/dermoscan/dermoscan/internal/config"
	"github.com/dermoscan/dermoscan/internal/preprocess"
)

// Version reported by the status endpoint.
const Version = "1.0.0"

// App carries the process-wide state handlers need: configuration, the
// classifier (read-only after construction) and the preprocessor sized
// for it. Handlers receive it explicitly instead of reaching for package
// globals.
type App struct {
	cfg       *config.Config
	clf       *classifier.Classifier
	pre       *preprocess.Preprocessor
	startedAt time.Time

	ravenEnabled bool
}

// New wires an App from its parts. When a Sentry DSN is configured,
// processing errors that produce 500 responses are reported there too.
func New(cfg *config.Config, clf *classifier.Classifier) *App {
	h, w := clf.InputSize()

	a := &App{
		cfg:       cfg,
		clf:       clf,
		pre:       preprocess.New(w, h),
		startedAt: time.Now(),
	}

	if cfg.SentryDSN != "" {
		if err := raven.SetDSN(cfg.SentryDSN); err != nil {
			log.Warn("[Main] Couldn't configure Sentry: ", err.Error())
		} else {
			a.ravenEnabled = true
		}
	}
	return a
}

// reportError forwards a processing error to Sentry when configured.
func (a *App) reportError(err error) {
	if a.ravenEnabled {
		raven.CaptureError(err, nil)
	}
}

// countUploads counts the files sitting in the upload directory; each
// saved upload corresponds to one completed or attempted analysis.
func (a *App) countUploads() int {
	entries, err := os.ReadDir(a.cfg.UploadDir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n
}
