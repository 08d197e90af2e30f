// Package hgio provides the default implementations of the external
// collaborator interfaces named in spec.md §6: a byte reader, an image
// decoder that promotes any PNG color type to 8-bit RGBA, and an image
// encoder that accepts an RGBA buffer plus ancillary (keyword, text) PNG
// chunks. internal/sheet uses its RGBA promotion and internal/dmi its
// chunk splicing rather than duplicating that logic inline.
package hgio

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"hypnagogic/internal/dmierr"
)

// Reader returns bytes given a path.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// OSReader reads files directly from the local filesystem.
type OSReader struct{}

func (OSReader) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dmierr.ErrIO, err)
	}
	return data, nil
}

// Writer writes bytes to a path.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// OSWriter writes files directly to the local filesystem.
type OSWriter struct{}

func (OSWriter) WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", dmierr.ErrIO, err)
	}
	return nil
}

// ImageDecoder decodes PNG bytes into an 8-bit RGBA buffer.
type ImageDecoder interface {
	Decode(data []byte) (*image.RGBA, error)
}

// PNGDecoder decodes any color type the standard library supports and
// promotes the result to 8-bit RGBA, per spec.md §6.
type PNGDecoder struct{}

func (PNGDecoder) Decode(data []byte) (*image.RGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dmierr.ErrImageDecode, err)
	}
	return PromoteToRGBA(src), nil
}

// PromoteToRGBA converts any decoded image into 8-bit RGBA, returning src
// itself (not a copy) if it already is one.
func PromoteToRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, src, b.Min, draw.Src)
	return out
}

// TextChunk is one (keyword, text) ancillary entry passed to an ImageEncoder.
type TextChunk struct {
	Keyword, Text string
}

// ImageEncoder accepts an RGBA buffer plus a sequence of ancillary text
// entries and returns encoded PNG bytes.
type ImageEncoder interface {
	Encode(img image.Image, chunks []TextChunk) ([]byte, error)
}

// ZTXtEncoder is the default ImageEncoder: it produces the pixel grid
// through the standard library's PNG encoder (which has no ancillary-chunk
// hook), then splices in each text entry as a zlib-compressed zTXt chunk.
type ZTXtEncoder struct{}

func (ZTXtEncoder) Encode(img image.Image, chunks []TextChunk) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", dmierr.ErrImageEncode, err)
	}

	out := buf.Bytes()
	for _, c := range chunks {
		spliced, err := InsertZTXt(out, c.Keyword, c.Text)
		if err != nil {
			return nil, err
		}
		out = spliced
	}
	return out, nil
}
