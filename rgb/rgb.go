/*
Package rgb implements the color conversions used by the MechWarrior 3
binary formats.

Textures store color as packed 16-bit RGB565 words in little-endian byte
order. Naively shifting the 5 and 6 bit fields up to 8 bits leaves the
bottom bits zero so a color can never reach full brightness; instead each
field is linearly interpolated over the full 8 bit range with half-up
rounding. The interpolation is precomputed into lookup tables so the per
pixel work at conversion time is a single table read.
*/
package rgb

import "errors"

// ErrInvalidLength is returned when a buffer length is not a whole multiple
// of the pixel stride for the requested conversion.
var ErrInvalidLength = errors.New("rgb: invalid buffer length")

func makeLerp888() *[0x10000]uint32 {
	t := new([0x10000]uint32)
	for i := range t {
		red := uint32(float32((i>>11)&0x1f)*255.0/31.0 + 0.5)
		green := uint32(float32((i>>5)&0x3f)*255.0/63.0 + 0.5)
		blue := uint32(float32(i&0x1f)*255.0/31.0 + 0.5)
		t[i] = red<<16 | green<<8 | blue
	}
	return t
}

func makeLerp(max uint8) *[0x100]uint8 {
	t := new([0x100]uint8)
	for i := range t {
		t[i] = uint8(float32(i)*float32(max)/255.0 + 0.5)
	}
	return t
}

var (
	lerp888 = makeLerp888()
	lerp5   = makeLerp(31)
	lerp6   = makeLerp(63)
)

// RGB565To888 unpacks little-endian RGB565 words into three bytes per pixel,
// red first. The returned buffer is freshly allocated and exactly 3/2 the
// length of src.
func RGB565To888(src []byte) ([]byte, error) {
	if len(src)%2 != 0 {
		return nil, ErrInvalidLength
	}
	dst := make([]byte, len(src)/2*3)
	for i, j := 0, 0; i < len(src); i, j = i+2, j+3 {
		color := lerp888[uint32(src[i+1])<<8|uint32(src[i])]
		dst[j+0] = byte(color >> 16)
		dst[j+1] = byte(color >> 8)
		dst[j+2] = byte(color)
	}
	return dst, nil
}

// RGB888To565 packs red, green, blue byte triples into little-endian RGB565
// words. The returned buffer is freshly allocated and exactly 2/3 the length
// of src. The conversion is lossy; the low bits of each channel are dropped
// by the quantization.
func RGB888To565(src []byte) ([]byte, error) {
	if len(src)%3 != 0 {
		return nil, ErrInvalidLength
	}
	dst := make([]byte, len(src)/3*2)
	for i, j := 0, 0; i < len(src); i, j = i+3, j+2 {
		red, green, blue := lerp5[src[i]], lerp6[src[i+1]], lerp5[src[i+2]]
		// little-endian GGGBBBBB RRRRRGGG
		dst[j+0] = green<<5 | blue
		dst[j+1] = red<<3 | green>>3
	}
	return dst, nil
}

// CheckPalette reports whether every byte in indices is a valid index into a
// palette of paletteCount colors.
func CheckPalette(paletteCount uint16, indices []byte) bool {
	for _, index := range indices {
		if uint16(index) >= paletteCount {
			return false
		}
	}
	return true
}
