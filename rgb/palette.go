package rgb

import "fmt"

const maxPaletteColors = 256

// ToPalette maps RGB888 pixel data onto the given RGB888 palette, returning
// one index byte per pixel. Colors must match exactly; a pixel color that
// does not appear in the palette is an error. Palettes in the original game
// data frequently contain duplicate colors, in which case the first index is
// used.
func ToPalette(pixels, palette []byte) ([]byte, error) {
	if len(pixels)%3 != 0 || len(palette)%3 != 0 {
		return nil, ErrInvalidLength
	}
	if len(palette)/3 > maxPaletteColors {
		return nil, fmt.Errorf("rgb: palette has %d colors, limit is %d", len(palette)/3, maxPaletteColors)
	}

	index := make(map[[3]byte]byte, len(palette)/3)
	for i := 0; i < len(palette); i += 3 {
		var c [3]byte
		copy(c[:], palette[i:i+3])
		if _, ok := index[c]; !ok {
			index[c] = byte(i / 3)
		}
	}

	dst := make([]byte, len(pixels)/3)
	for i, j := 0, 0; i < len(pixels); i, j = i+3, j+1 {
		var c [3]byte
		copy(c[:], pixels[i:i+3])
		n, ok := index[c]
		if !ok {
			return nil, fmt.Errorf("rgb: color #%02x%02x%02x not in palette", c[0], c[1], c[2])
		}
		dst[j] = n
	}
	return dst, nil
}
