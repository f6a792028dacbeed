package server

import (
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/dermoscan/dermoscan/internal/classifier"
)

func (a *App) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":      "Skin Lesion Analyzer API",
		"version":      Version,
		"status":       "running",
		"model_loaded": a.clf.ModelLoaded(),
	})
}

func (a *App) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"model_loaded": a.clf.ModelLoaded(),
	})
}

func (a *App) handleClasses(c *gin.Context) {
	classes := make(map[string]string, len(classifier.Labels))
	for i, label := range classifier.Labels {
		classes[strconv.Itoa(i)] = label
	}
	c.JSON(http.StatusOK, gin.H{
		"classes": classes,
		"total":   len(classifier.Labels),
	})
}

func (a *App) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"total_analyses":    a.countUploads(),
		"model_loaded":      a.clf.ModelLoaded(),
		"available_classes": len(classifier.Labels),
		"uptime_seconds":    int64(time.Since(a.startedAt).Seconds()),
	})
}

func (a *App) handleAnalyze(c *gin.Context) {
	started := time.Now()

	_, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No image file provided"})
		return
	}
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No selected file"})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !a.cfg.ExtAllowed(ext) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Invalid file type. Allowed: %s", strings.Join(a.cfg.AllowedExts, ", ")),
		})
		return
	}

	if header.Size > a.cfg.MaxContentLength {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"success": false,
			"error":   fmt.Sprintf("File too large. Maximum size: %.1fMB", float64(a.cfg.MaxContentLength)/(1024*1024)),
		})
		return
	}

	if err := os.MkdirAll(a.cfg.UploadDir, 0755); err != nil {
		a.fail(c, fmt.Errorf("create upload directory: %w", err))
		return
	}

	id, err := uuid.NewV4()
	if err != nil {
		a.fail(c, fmt.Errorf("generate upload id: %w", err))
		return
	}
	filename := fmt.Sprintf("%s_%s%s", started.Format("20060102_150405"), id.String(), ext)
	savedPath := filepath.Join(a.cfg.UploadDir, filename)

	if err := c.SaveUploadedFile(header, savedPath); err != nil {
		a.fail(c, fmt.Errorf("save upload: %w", err))
		return
	}
	log.Info("[Analyze] File saved: ", savedPath)

	tensor, err := a.pre.FromFile(savedPath)
	if err != nil {
		a.fail(c, err)
		return
	}

	pred, err := a.clf.Classify(tensor)
	if err != nil {
		a.fail(c, err)
		return
	}

	elapsed := time.Since(started).Seconds()
	log.Infof("[Analyze] Analysis completed: %s (%.2f%%)", pred.Label, pred.Confidence*100)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"filename":        filename,
		"prediction":      pred.Label,
		"confidence":      pred.Confidence,
		"confidence_tier": pred.Tier,
		"simulated":       pred.Simulated,
		"all_predictions": pred.Probabilities,
		"processing_time": math.Round(elapsed*1000) / 1000,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

// fail reports a processing error as a 500 response and forwards it to
// Sentry when configured.
func (a *App) fail(c *gin.Context, err error) {
	log.Error("[Analyze] Error during analysis: ", err.Error())
	a.reportError(err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}
