// Package qrcode renders QR codes as PNG images.
package qrcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// ErrEmptyContent is returned when there is nothing to encode.
var ErrEmptyContent = errors.New("qr code content is empty")

// PNG encodes content as a QR code of roughly size x size pixels with a quiet zone of
// margin modules on each side. Modules are whole pixels, so the image is never smaller
// than one pixel per module.
func PNG(content string, size, margin int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	modules := code.Bounds().Dx()
	total := modules + 2*margin

	px := max(size/total, 1)

	scaled, err := barcode.Scale(code, px*modules, px*modules)
	if err != nil {
		return nil, fmt.Errorf("failed to scale qr code: %w", err)
	}

	side := max(size, px*total)
	canvas := image.NewGray(image.Rect(0, 0, side, side))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	offset := (side - px*modules) / 2
	draw.Draw(canvas, scaled.Bounds().Add(image.Pt(offset, offset)), scaled, scaled.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err = png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to write png: %w", err)
	}

	return buf.Bytes(), nil
}
