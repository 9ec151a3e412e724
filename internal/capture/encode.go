package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"golang.org/x/image/draw"
)

const dataURLPrefix = "data:image/jpeg;base64,"

// Encode scales src into a width x height raster and returns it as a JPEG
// data URL.
func Encode(src image.Image, width, height, quality int) (*Image, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, errors.New("capture: empty frame")
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("capture: encode jpeg: %w", err)
	}
	return &Image{
		Encoded: dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:   width,
		Height:  height,
	}, nil
}

// Decode parses a data URL produced by Encode.
func Decode(encoded string) (image.Image, error) {
	raw, ok := strings.CutPrefix(encoded, dataURLPrefix)
	if !ok {
		return nil, errors.New("capture: not a jpeg data url")
	}
	bs, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("capture: decode base64: %w", err)
	}
	return jpeg.Decode(bytes.NewReader(bs))
}
