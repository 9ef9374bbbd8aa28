package assets

import (
	"bytes"
	"encoding/base64"
	"image"
	"io"
	"net/url"
	"strings"

	// Registered image formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/imagerows/pkg/errors"
)

// Size is the intrinsic size of an image.
type Size struct {
	Width  int    `json:"w"`
	Height int    `json:"h"`
	Format string `json:"f,omitempty"`
}

// DecodeSize reads an image header from r.
func DecodeSize(r io.Reader) (Size, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Size{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode image")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Size{}, errors.New(errors.ErrCodeInvalidFormat, "image has empty bounds %dx%d", cfg.Width, cfg.Height)
	}
	return Size{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// parseDataURI returns the payload of a "data:" URI.
func parseDataURI(src string) ([]byte, error) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "data URI has no payload")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "data URI payload")
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "data URI payload")
	}
	return []byte(data), nil
}

func decodeDataURI(src string) (Size, error) {
	data, err := parseDataURI(src)
	if err != nil {
		return Size{}, err
	}
	return DecodeSize(bytes.NewReader(data))
}
