package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/dermoscan/dermoscan/internal/classifier"
	"github.com/dermoscan/dermoscan/internal/config"
	"github.com/dermoscan/dermoscan/internal/logging"
	"github.com/dermoscan/dermoscan/internal/server"
)

func main() {
	releaseMode := flag.Bool("release", false, "Run gin in release mode")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("[Main] Couldn't load configuration: ", err.Error())
	}
	logging.Setup(cfg.LogFile, *verbose)

	if *releaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatal("[Main] Couldn't create upload directory: ", err.Error())
	}

	clf := classifier.New(cfg.ModelPath)
	app := server.New(cfg, clf)

	log.Info("[Main] Skin Lesion Analyzer API starting")
	log.Info("[Main] Port: ", cfg.Port)
	log.Info("[Main] Upload folder: ", cfg.UploadDir)
	log.Info("[Main] Model path: ", cfg.ModelPath)
	log.Info("[Main] Model loaded: ", clf.ModelLoaded())

	if err := app.Router().Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal("[Main] Server failed: ", err.Error())
	}
}
