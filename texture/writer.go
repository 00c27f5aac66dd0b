package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/bodgit/mech3/rgb"
	"github.com/ericpauley/go-quantize/quantize"
)

type encoded struct {
	name         string
	flags        Flag
	width        int
	height       int
	paletteCount uint16
	stretch      uint16
	image        []byte
	alpha        []byte
	palette      []byte
}

func (e *encoded) length() int {
	return infoLen + len(e.image) + len(e.alpha) + len(e.palette)
}

func rgbBytes(m image.Image) []byte {
	b := m.Bounds()
	pixels := make([]byte, b.Dx()*b.Dy()*3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			pixels[i+0] = c.R
			pixels[i+1] = c.G
			pixels[i+2] = c.B
			i += 3
		}
	}
	return pixels
}

func alphaBytes(m image.Image) []byte {
	b := m.Bounds()
	alpha := make([]byte, b.Dx()*b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			alpha[i] = color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA).A
			i++
		}
	}
	return alpha
}

func flattenPalette(p color.Palette) []byte {
	palette := make([]byte, len(p)*3)
	for i, c := range p {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		palette[i*3+0] = n.R
		palette[i*3+1] = n.G
		palette[i*3+2] = n.B
	}
	return palette
}

func paletteIndices(m *image.Paletted) []byte {
	b := m.Bounds()
	indices := make([]byte, b.Dx()*b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			indices[i] = m.ColorIndexAt(x, y)
			i++
		}
	}
	return indices
}

func encodeTexture(t Texture) (*encoded, error) {
	if err := validateFlags(t.Name, t.Flags); err != nil {
		return nil, err
	}
	if len(t.Name) >= nameLen {
		return nil, fmt.Errorf("texture: name %q is too long", t.Name)
	}
	if t.Image == nil {
		return nil, fmt.Errorf("texture: %q has no image", t.Name)
	}

	b := t.Image.Bounds()
	if b.Dx() > 0xffff || b.Dy() > 0xffff {
		return nil, fmt.Errorf("texture: %q is too big", t.Name)
	}

	e := &encoded{
		name:         t.Name,
		flags:        t.Flags,
		width:        b.Dx(),
		height:       b.Dy(),
		paletteCount: t.PaletteCount,
		stretch:      t.Stretch,
	}

	var err error
	switch {
	case t.PaletteCount != 0 && t.Flags.Has(FlagFullAlpha):
		// The image was expanded to RGB when it was decoded, so map it
		// back onto the stored palette
		if t.Palette == nil {
			return nil, fmt.Errorf("texture: %q has a palette count but no palette", t.Name)
		}
		if e.image, err = rgb.ToPalette(rgbBytes(t.Image), t.Palette); err != nil {
			return nil, err
		}
		if e.palette, err = rgb.RGB888To565(t.Palette); err != nil {
			return nil, err
		}
		e.alpha = alphaBytes(t.Image)
	case t.PaletteCount != 0:
		m, ok := t.Image.(*image.Paletted)
		if !ok {
			return nil, fmt.Errorf("texture: %q has a palette count but is not paletted", t.Name)
		}
		if len(m.Palette) < int(t.PaletteCount) {
			return nil, fmt.Errorf("texture: %q has %d palette colors, expected %d", t.Name, len(m.Palette), t.PaletteCount)
		}
		e.image = paletteIndices(m)
		if e.palette, err = rgb.RGB888To565(flattenPalette(m.Palette[:t.PaletteCount])); err != nil {
			return nil, err
		}
	default:
		if e.image, err = rgb.RGB888To565(rgbBytes(t.Image)); err != nil {
			return nil, err
		}
		if t.Flags.Has(FlagFullAlpha) {
			e.alpha = alphaBytes(t.Image)
		}
	}

	if t.PaletteCount != 0 && !rgb.CheckPalette(t.PaletteCount, e.image) {
		return nil, fmt.Errorf("texture: %q has palette indices out of range", t.Name)
	}

	return e, nil
}

type encoder struct {
	w io.Writer
}

func (e *encoder) writeHeader(count int) error {
	var b [headerLen]byte
	binary.LittleEndian.PutUint32(b[4:], 1)
	binary.LittleEndian.PutUint32(b[12:], uint32(count))
	_, err := e.w.Write(b[:])
	return err
}

func (e *encoder) writeEntries(textures []*encoded) error {
	offset := uint32(headerLen + entryLen*len(textures))
	for _, t := range textures {
		var b [entryLen]byte
		copy(b[:nameLen], t.name)
		binary.LittleEndian.PutUint32(b[nameLen:], offset)
		index := int32(noGlobalPalette)
		binary.LittleEndian.PutUint32(b[nameLen+4:], uint32(index))
		if _, err := e.w.Write(b[:]); err != nil {
			return err
		}
		offset += uint32(t.length())
	}
	return nil
}

func (e *encoder) writeTexture(t *encoded) error {
	var b [infoLen]byte
	binary.LittleEndian.PutUint32(b[0:], uint32(t.flags))
	binary.LittleEndian.PutUint16(b[4:], uint16(t.width))
	binary.LittleEndian.PutUint16(b[6:], uint16(t.height))
	binary.LittleEndian.PutUint16(b[12:], t.paletteCount)
	binary.LittleEndian.PutUint16(b[14:], t.stretch)
	if _, err := e.w.Write(b[:]); err != nil {
		return err
	}

	for _, data := range [][]byte{t.image, t.alpha, t.palette} {
		if len(data) == 0 {
			continue
		}
		if _, err := e.w.Write(data); err != nil {
			return err
		}
	}

	return nil
}

func (e *encoder) encode(textures []Texture) error {
	enc := make([]*encoded, len(textures))
	for i, t := range textures {
		var err error
		if enc[i], err = encodeTexture(t); err != nil {
			return err
		}
	}

	if err := e.writeHeader(len(enc)); err != nil {
		return err
	}
	if err := e.writeEntries(enc); err != nil {
		return err
	}
	for _, t := range enc {
		if err := e.writeTexture(t); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes the textures to w as a texture archive. Encoding a slice
// returned by Decode reproduces the original archive byte for byte.
func Encode(w io.Writer, textures []Texture) error {
	e := encoder{w: w}
	return e.encode(textures)
}

// Palettize reduces m to a paletted image with at most colors entries using
// median cut quantization. Game textures normally arrive with their palette
// already; this is for building paletted textures from arbitrary images.
func Palettize(m image.Image, colors int) *image.Paletted {
	q := quantize.MedianCutQuantizer{}

	b := m.Bounds()
	p := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(p, b, m, b.Min, draw.Src)

	return p
}
