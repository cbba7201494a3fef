package qrcode

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNG(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		margin int
	}{
		{name: "default", size: 256, margin: 2},
		{name: "no margin", size: 256, margin: 0},
		{name: "large", size: 1024, margin: 4},
		{name: "smaller than the module count", size: 10, margin: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := PNG("https://stock.example.com/fabrics/42", tt.size, tt.margin)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(b))
			require.NoError(t, err)

			bounds := img.Bounds()
			assert.Equal(t, bounds.Dx(), bounds.Dy())
			assert.GreaterOrEqual(t, bounds.Dx(), tt.size)

			if tt.margin > 0 {
				// quiet zone corner is white
				r, g, b, _ := img.At(0, 0).RGBA()
				wr, wg, wb, _ := color.White.RGBA()
				assert.Equal(t, []uint32{wr, wg, wb}, []uint32{r, g, b})
			}
		})
	}
}

func TestPNGEmpty(t *testing.T) {
	_, err := PNG("", 256, 2)
	require.ErrorIs(t, err, ErrEmptyContent)
}
