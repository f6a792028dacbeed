// bootstrap-model writes a freshly initialized lesion model checkpoint.
// The weights are random, so predictions are meaningless, but it lets
// operators exercise the real-inference path end to end before a trained
// model is available.
package main

import (
	"flag"

	log "github.com/sirupsen/logrus"

	"github.com/dermoscan/dermoscan/internal/classifier"
	"github.com/dermoscan/dermoscan/internal/logging"
	"github.com/dermoscan/dermoscan/pkg/seqnet"
)

func main() {
	out := flag.String("out", "models/model_fixed.json", "Where to write the checkpoint")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	logging.Setup("", *verbose)

	model, err := classifier.LesionNet(classifier.ModelInputHeight, classifier.ModelInputWidth, len(classifier.Labels))
	if err != nil {
		log.Fatal("[Bootstrap] Couldn't build model: ", err.Error())
	}
	if err := seqnet.Save(model, *out); err != nil {
		log.Fatal("[Bootstrap] Couldn't save checkpoint: ", err.Error())
	}

	log.Info("[Bootstrap] Demo checkpoint written to ", *out)
	log.Info("[Bootstrap] Weights are untrained; use this model for demonstration only")
}
