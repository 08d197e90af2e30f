package dmi

import (
	"fmt"

	"hypnagogic/internal/dmierr"
	"hypnagogic/internal/hgio"
)

// ParseDescription extracts and zlib-decompresses the zTXt chunk keyed
// "Description" from a DMI PNG byte stream, for round-trip verification (P7).
func ParseDescription(pngBytes []byte) (string, error) {
	text, ok, err := hgio.ExtractZTXt(pngBytes, descriptionKeyword)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: no Description zTXt chunk found", dmierr.ErrImageDecode)
	}
	return text, nil
}
