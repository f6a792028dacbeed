// Package dashboard implements the interactive HTML front-end: a
// sample-image demo page and a user-upload page, both rendering the
// classification result with a probability bar chart. Uploads are
// processed in memory and never persisted.
package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/dermoscan/dermoscan/internal/classifier"
	"github.com/dermoscan/dermoscan/internal/config"
	"github.com/dermoscan/dermoscan/internal/preprocess"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Dashboard renders the interactive pages over a shared classifier.
type Dashboard struct {
	cfg     *config.Config
	clf     *classifier.Classifier
	pre     *preprocess.Preprocessor
	samples map[string][]byte
	order   []string
}

// New builds a dashboard. Sample images are synthesized at startup so
// the demo page works without any bundled assets.
func New(cfg *config.Config, clf *classifier.Classifier) (*Dashboard, error) {
	h, w := clf.InputSize()
	d := &Dashboard{
		cfg:     cfg,
		clf:     clf,
		pre:     preprocess.New(w, h),
		samples: make(map[string][]byte),
	}
	if err := d.generateSamples(); err != nil {
		return nil, err
	}
	return d, nil
}

// Router builds the gin engine serving the dashboard pages.
func (d *Dashboard) Router() (*gin.Engine, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("dashboard: parse templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	router.GET("/", d.handleHome)
	router.GET("/samples/:name", d.handleSampleImage)
	router.GET("/analyze/:name", d.handleAnalyzeSample)
	router.GET("/upload", d.handleUploadForm)
	router.POST("/upload", d.handleUpload)
	return router, nil
}

type barView struct {
	Label   string
	Percent float64
	Top     bool
}

type resultView struct {
	Source        string
	Prediction    string
	Tier          string
	ConfidencePct float64
	Simulated     bool
	Bars          []barView
}

func (d *Dashboard) handleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "home.tmpl", gin.H{
		"Samples":     d.order,
		"ModelLoaded": d.clf.ModelLoaded(),
	})
}

func (d *Dashboard) handleSampleImage(c *gin.Context) {
	data, ok := d.samples[c.Param("name")]
	if !ok {
		c.String(http.StatusNotFound, "unknown sample")
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (d *Dashboard) handleAnalyzeSample(c *gin.Context) {
	name := c.Param("name")
	data, ok := d.samples[name]
	if !ok {
		d.renderError(c, http.StatusNotFound, "Unknown sample image")
		return
	}
	d.classifyAndRender(c, data, "Sample "+name)
}

func (d *Dashboard) handleUploadForm(c *gin.Context) {
	c.HTML(http.StatusOK, "upload.tmpl", gin.H{
		"Allowed": strings.Join(d.cfg.AllowedExts, ", "),
	})
}

func (d *Dashboard) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		d.renderError(c, http.StatusBadRequest, "Please select an image file to upload")
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if !d.cfg.ExtAllowed(ext) {
		d.renderError(c, http.StatusBadRequest,
			fmt.Sprintf("Invalid file type. Allowed: %s", strings.Join(d.cfg.AllowedExts, ", ")))
		return
	}
	if header.Size > d.cfg.MaxContentLength {
		d.renderError(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File too large. Maximum size: %.1fMB", float64(d.cfg.MaxContentLength)/(1024*1024)))
		return
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		d.renderError(c, http.StatusInternalServerError, "Couldn't read upload")
		return
	}
	d.classifyAndRender(c, buf.Bytes(), header.Filename)
}

func (d *Dashboard) classifyAndRender(c *gin.Context, data []byte, source string) {
	tensor, err := d.pre.FromBytes(data)
	if err != nil {
		d.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	pred, err := d.clf.Classify(tensor)
	if err != nil {
		log.Error("[Dashboard] Classification failed: ", err.Error())
		d.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	view := resultView{
		Source:        source,
		Prediction:    pred.Label,
		Tier:          pred.Tier,
		ConfidencePct: pred.Confidence * 100,
		Simulated:     pred.Simulated,
	}
	for _, s := range pred.Probabilities {
		view.Bars = append(view.Bars, barView{
			Label:   s.Label,
			Percent: s.Probability * 100,
			Top:     s.Label == pred.Label,
		})
	}
	c.HTML(http.StatusOK, "result.tmpl", view)
}

func (d *Dashboard) renderError(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.tmpl", gin.H{"Message": msg})
}

// generateSamples synthesizes three deterministic demo images so the
// sample page has something to classify out of the box.
func (d *Dashboard) generateSamples() error {
	patterns := map[string]func(x, y int) color.RGBA{
		"lesion-a": func(x, y int) color.RGBA {
			return color.RGBA{uint8(120 + x/2), uint8(80 + y/3), 90, 255}
		},
		"lesion-b": func(x, y int) color.RGBA {
			dx, dy := x-64, y-64
			if dx*dx+dy*dy < 1600 {
				return color.RGBA{90, 60, 50, 255}
			}
			return color.RGBA{210, 180, 160, 255}
		},
		"lesion-c": func(x, y int) color.RGBA {
			return color.RGBA{uint8(200 - (x+y)/2), uint8(140 - y/4), uint8(120 - x/4), 255}
		},
	}

	for name, fill := range patterns {
		img := image.NewRGBA(image.Rect(0, 0, 128, 128))
		for y := 0; y < 128; y++ {
			for x := 0; x < 128; x++ {
				img.Set(x, y, fill(x, y))
			}
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("dashboard: encode sample %s: %w", name, err)
		}
		d.samples[name] = buf.Bytes()
		d.order = append(d.order, name)
	}
	sort.Strings(d.order)
	return nil
}
