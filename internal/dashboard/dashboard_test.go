package dashboard

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermoscan/dermoscan/internal/classifier"
	"github.com/dermoscan/dermoscan/internal/config"
)

func testServer(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:             8080,
		UploadDir:        filepath.Join(t.TempDir(), "uploads"),
		MaxContentLength: 16 << 20,
		AllowedExts:      []string{"png", "jpg", "jpeg", "gif", "webp"},
	}
	d, err := New(cfg, classifier.New(""))
	require.NoError(t, err)

	router, err := d.Router()
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, cfg
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			img.Set(x, y, color.RGBA{180, uint8(100 + y), 90, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestHomePageListsSamples(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := resty.New().R().Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode())

	body := string(resp.Body())
	assert.Contains(t, body, "lesion-a")
	assert.Contains(t, body, "lesion-b")
	assert.Contains(t, body, "lesion-c")
	assert.Contains(t, body, "results are simulated")
}

func TestSampleImageServesPNG(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := resty.New().R().Get(srv.URL + "/samples/lesion-a")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
}

func TestAnalyzeSampleRendersResult(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := resty.New().R().Get(srv.URL + "/analyze/lesion-b")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode())

	body := string(resp.Body())
	assert.Contains(t, body, "Classification result")
	assert.Contains(t, body, "confidence")
	assert.Contains(t, body, "this result is simulated")
}

func TestUploadRendersResultWithoutPersisting(t *testing.T) {
	srv, cfg := testServer(t)

	resp, err := resty.New().R().
		SetFileReader("image", "mole.jpg", bytes.NewReader(testJPEG(t))).
		Post(srv.URL + "/upload")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "Classification result")

	// dashboard uploads are transient
	_, statErr := os.Stat(cfg.UploadDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := resty.New().R().
		SetFileReader("image", "malware.exe", bytes.NewReader(testJPEG(t))).
		Post(srv.URL + "/upload")
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "Invalid file type")
}

func TestUnknownSampleReturns404Page(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := resty.New().R().Get(srv.URL + "/analyze/nope")
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode())
}
