package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/mech3/rgb"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func asciiZTerm(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

type entry struct {
	name  string
	start uint32
}

type decoder struct {
	r io.Reader

	// Offset of the next read; every texture must start exactly where the
	// entry table says it does
	offset uint32
}

func (d *decoder) read(b []byte) error {
	if err := readFull(d.r, b); err != nil {
		return err
	}
	d.offset += uint32(len(b))
	return nil
}

func (d *decoder) readHeader() (int, error) {
	var b [headerLen]byte
	if err := d.read(b[:]); err != nil {
		return 0, err
	}

	zero1 := binary.LittleEndian.Uint32(b[0:])
	hasEntries := binary.LittleEndian.Uint32(b[4:])
	globalPaletteCount := binary.LittleEndian.Uint32(b[8:])
	count := binary.LittleEndian.Uint32(b[12:])
	zero2 := binary.LittleEndian.Uint32(b[16:])
	zero3 := binary.LittleEndian.Uint32(b[20:])

	if zero1 != 0 || hasEntries != 1 || zero2 != 0 || zero3 != 0 {
		return 0, errBadHeader
	}
	if globalPaletteCount != 0 {
		return 0, errGlobalPalette
	}

	return int(count), nil
}

func (d *decoder) readEntries(count int) ([]entry, error) {
	entries := make([]entry, count)
	for i := range entries {
		var b [entryLen]byte
		if err := d.read(b[:]); err != nil {
			return nil, err
		}

		entries[i].name = asciiZTerm(b[:nameLen])
		entries[i].start = binary.LittleEndian.Uint32(b[nameLen:])

		if index := int32(binary.LittleEndian.Uint32(b[nameLen+4:])); index != noGlobalPalette {
			return nil, errGlobalPalette
		}
	}
	return entries, nil
}

func validateFlags(name string, flags Flag) error {
	if flags == 0 || flags&^flagMask != 0 {
		return fmt.Errorf("texture: %q has undefined flags %#x", name, uint32(flags))
	}
	if !flags.Has(FlagBytesPerPixel2) {
		return fmt.Errorf("texture: %q uses one byte per pixel which is not supported", name)
	}
	if flags.Has(FlagUseGlobalPalette) {
		return errGlobalPalette
	}
	return nil
}

func palettedImage(indices, palette []byte, width, height int) *image.Paletted {
	p := make(color.Palette, len(palette)/3)
	for i := range p {
		p[i] = color.NRGBA{palette[i*3], palette[i*3+1], palette[i*3+2], 0xff}
	}

	m := image.NewPaletted(image.Rect(0, 0, width, height), p)
	copy(m.Pix, indices)

	return m
}

func nrgbaImage(pixels, alpha []byte, width, height int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; j < len(pixels); i, j = i+4, j+3 {
		m.Pix[i+0] = pixels[j+0]
		m.Pix[i+1] = pixels[j+1]
		m.Pix[i+2] = pixels[j+2]
		if alpha != nil {
			m.Pix[i+3] = alpha[j/3]
		} else {
			m.Pix[i+3] = 0xff
		}
	}
	return m
}

func (d *decoder) readTexture(name string) (Texture, error) {
	t := Texture{Name: name}

	var b [infoLen]byte
	if err := d.read(b[:]); err != nil {
		return t, err
	}

	t.Flags = Flag(binary.LittleEndian.Uint32(b[0:]))
	width := int(binary.LittleEndian.Uint16(b[4:]))
	height := int(binary.LittleEndian.Uint16(b[6:]))
	zero := binary.LittleEndian.Uint32(b[8:])
	t.PaletteCount = binary.LittleEndian.Uint16(b[12:])
	t.Stretch = binary.LittleEndian.Uint16(b[14:])

	if err := validateFlags(name, t.Flags); err != nil {
		return t, err
	}
	if zero != 0 {
		return t, fmt.Errorf("texture: %q has non-zero reserved field %d", name, zero)
	}
	if t.Stretch > 3 {
		return t, fmt.Errorf("texture: %q has invalid stretch %d", name, t.Stretch)
	}

	size := width * height

	hasFullAlpha := t.Flags.Has(FlagFullAlpha)
	hasSimpleAlpha := t.Flags.Has(FlagHasAlpha) && !hasFullAlpha

	var pixels, alpha []byte
	if t.PaletteCount == 0 {
		raw := make([]byte, size*2)
		if err := d.read(raw); err != nil {
			return t, err
		}
		if hasSimpleAlpha {
			alpha, _ = rgb.SimpleAlpha565(raw)
		}
		pixels, _ = rgb.RGB565To888(raw)
	} else {
		pixels = make([]byte, size)
		if err := d.read(pixels); err != nil {
			return t, err
		}
		if !rgb.CheckPalette(t.PaletteCount, pixels) {
			return t, fmt.Errorf("texture: %q has palette indices out of range", name)
		}
		// a paletted texture with simple alpha would need the alpha
		// constructed after the palette is read; no game file does this
		if hasSimpleAlpha {
			return t, fmt.Errorf("texture: %q uses a palette with simple alpha", name)
		}
	}

	if hasFullAlpha {
		alpha = make([]byte, size)
		if err := d.read(alpha); err != nil {
			return t, err
		}
	}

	if t.PaletteCount == 0 {
		t.Image = nrgbaImage(pixels, alpha, width, height)
		return t, nil
	}

	raw := make([]byte, int(t.PaletteCount)*2)
	if err := d.read(raw); err != nil {
		return t, err
	}
	palette, _ := rgb.RGB565To888(raw)

	if alpha != nil {
		// A palette plus an alpha plane cannot be represented as a
		// paletted image; expand the indices and keep the palette so the
		// texture can be encoded again
		expanded := make([]byte, size*3)
		for i, index := range pixels {
			copy(expanded[i*3:], palette[int(index)*3:int(index)*3+3])
		}
		t.Image = nrgbaImage(expanded, alpha, width, height)
		t.Palette = palette
	} else {
		t.Image = palettedImage(pixels, palette, width, height)
	}

	return t, nil
}

func (d *decoder) decode(r io.Reader) ([]Texture, error) {
	d.r = r

	count, err := d.readHeader()
	if err != nil {
		return nil, err
	}

	entries, err := d.readEntries(count)
	if err != nil {
		return nil, err
	}

	textures := make([]Texture, 0, len(entries))
	for _, e := range entries {
		if e.start != d.offset {
			return nil, fmt.Errorf("texture: %q starts at %d, expected %d", e.name, e.start, d.offset)
		}
		t, err := d.readTexture(e.name)
		if err != nil {
			return nil, err
		}
		textures = append(textures, t)
	}

	return textures, nil
}

// Decode reads a texture archive from r and returns the textures it
// contains.
func Decode(r io.Reader) ([]Texture, error) {
	var d decoder
	textures, err := d.decode(r)
	if err == io.ErrUnexpectedEOF {
		err = errNotEnough
	}
	return textures, err
}
