// fix-model is a one-shot repair tool for a corrupted model checkpoint.
// It extracts raw weight tensors by walking the file structure, rebuilds
// the correct Conv2D architecture, re-injects every tensor it can match
// by legacy name and shape, smoke-tests the result and writes the
// corrected checkpoint.
package main

import (
	"flag"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/dermoscan/dermoscan/internal/logging"
	"github.com/dermoscan/dermoscan/internal/repair"
)

func main() {
	src := flag.String("src", "models/model.json", "Path to the corrupted checkpoint")
	dst := flag.String("dst", "models/model_fixed.json", "Where to write the corrected checkpoint")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	logging.Setup("", *verbose)

	res, err := repair.Run(*src, *dst)
	if err != nil {
		log.Fatal("[Repair] Recovery failed: ", err.Error())
	}

	log.Info("[Repair] Recovery summary:")
	log.Infof("[Repair]   extracted tensors: %d", res.Extracted)
	log.Infof("[Repair]   layers injected:   %d (%s)", len(res.Injected), strings.Join(res.Injected, ", "))
	log.Infof("[Repair]   kernels converted: %d", len(res.Converted))
	if len(res.NotFound) > 0 {
		log.Warnf("[Repair]   layers left at random initialization: %s", strings.Join(res.NotFound, ", "))
		log.Warn("[Repair] The recovered model is a best-effort salvage; consider re-training")
	}
}
