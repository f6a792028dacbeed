// Package preprocess turns uploaded image bytes into the tensor shape the
// classifier expects.
package preprocess

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/dermoscan/dermoscan/pkg/seqnet"
)

// Preprocessor resizes and normalizes images to a fixed target size.
type Preprocessor struct {
	Width  int
	Height int
}

// New creates a preprocessor for the given target dimensions.
func New(width, height int) *Preprocessor {
	return &Preprocessor{Width: width, Height: height}
}

// FromReader decodes an image from r and converts it to a model input
// tensor.
func (p *Preprocessor) FromReader(r io.Reader) (*seqnet.Tensor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("preprocess: read image: %w", err)
	}
	return p.FromBytes(data)
}

// FromFile loads an image from disk and converts it to a model input
// tensor.
func (p *Preprocessor) FromFile(path string) (*seqnet.Tensor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preprocess: open image: %w", err)
	}
	return p.FromBytes(data)
}

// FromBytes decodes raw image bytes and converts them to a model input
// tensor.
func (p *Preprocessor) FromBytes(data []byte) (*seqnet.Tensor, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, err
	}
	return p.FromImage(img), nil
}

// FromImage resizes img to the target size and normalizes RGB values to
// [0, 1], producing an HWC float32 tensor of shape (Height, Width, 3).
func (p *Preprocessor) FromImage(img image.Image) *seqnet.Tensor {
	resized := imaging.Resize(img, p.Width, p.Height, imaging.Lanczos)

	out := seqnet.NewTensor(p.Height, p.Width, 3)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			idx := (y*p.Width + x) * 3
			out.Data[idx] = float32(r>>8) / 255.0
			out.Data[idx+1] = float32(g>>8) / 255.0
			out.Data[idx+2] = float32(b>>8) / 255.0
		}
	}
	return out
}

// decodeImage tries the registered stdlib decoders first and falls back
// to an explicit WebP decode.
func decodeImage(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("preprocess: unknown or unsupported image format")
}
