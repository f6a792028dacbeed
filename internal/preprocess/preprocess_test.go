package preprocess

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestImage creates a gradient test image.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			img.Set(x, y, color.RGBA{r, g, 128, 255})
		}
	}
	return img
}

func TestFromImageProducesTargetShape(t *testing.T) {
	p := New(224, 224)
	tensor := p.FromImage(createTestImage(640, 480))

	assert.Equal(t, []int{224, 224, 3}, tensor.Shape)
	assert.Equal(t, 224*224*3, len(tensor.Data))
}

func TestFromImageNormalizesToUnitRange(t *testing.T) {
	p := New(32, 32)
	tensor := p.FromImage(createTestImage(32, 32))

	for _, v := range tensor.Data {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestFromImageSolidColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	tensor := New(16, 16).FromImage(img)
	assert.InDelta(t, 1.0, float64(tensor.Data[0]), 0.01) // R
	assert.InDelta(t, 0.0, float64(tensor.Data[1]), 0.01) // G
	assert.InDelta(t, 0.0, float64(tensor.Data[2]), 0.01) // B
}

func TestFromBytesDecodesJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, createTestImage(64, 64), nil))

	tensor, err := New(32, 32).FromBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []int{32, 32, 3}, tensor.Shape)
}

func TestFromBytesDecodesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, createTestImage(64, 64)))

	tensor, err := New(32, 32).FromBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []int{32, 32, 3}, tensor.Shape)
}

func TestFromBytesRejectsGarbage(t *testing.T) {
	_, err := New(32, 32).FromBytes([]byte("definitely not an image"))
	assert.Error(t, err)
}
