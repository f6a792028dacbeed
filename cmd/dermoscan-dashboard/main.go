package main

import (
	"flag"
	"fmt"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/dermoscan/dermoscan/internal/classifier"
	"github.com/dermoscan/dermoscan/internal/config"
	"github.com/dermoscan/dermoscan/internal/dashboard"
	"github.com/dermoscan/dermoscan/internal/logging"
)

func main() {
	releaseMode := flag.Bool("release", false, "Run gin in release mode")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	port := flag.Int("port", 0, "Override the configured port")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("[Main] Couldn't load configuration: ", err.Error())
	}
	logging.Setup(cfg.LogFile, *verbose)

	if *releaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if *port != 0 {
		cfg.Port = *port
	}

	clf := classifier.New(cfg.ModelPath)
	d, err := dashboard.New(cfg, clf)
	if err != nil {
		log.Fatal("[Main] Couldn't build dashboard: ", err.Error())
	}
	router, err := d.Router()
	if err != nil {
		log.Fatal("[Main] Couldn't build router: ", err.Error())
	}

	log.Info("[Main] Skin Lesion Analyzer dashboard starting on port ", cfg.Port)
	log.Info("[Main] Model loaded: ", clf.ModelLoaded())

	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal("[Main] Server failed: ", err.Error())
	}
}
