package texture

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawTexture struct {
	name string
	data []byte
}

func buildArchive(textures ...rawTexture) []byte {
	b := new(bytes.Buffer)

	header := make([]byte, headerLen)
	binary.LittleEndian.PutUint32(header[4:], 1)
	binary.LittleEndian.PutUint32(header[12:], uint32(len(textures)))
	b.Write(header)

	offset := uint32(headerLen + entryLen*len(textures))
	for _, t := range textures {
		e := make([]byte, entryLen)
		copy(e, t.name)
		binary.LittleEndian.PutUint32(e[nameLen:], offset)
		binary.LittleEndian.PutUint32(e[nameLen+4:], 0xffffffff)
		b.Write(e)
		offset += uint32(len(t.data))
	}

	for _, t := range textures {
		b.Write(t.data)
	}

	return b.Bytes()
}

func info(flags Flag, width, height, paletteCount, stretch int) []byte {
	b := make([]byte, infoLen)
	binary.LittleEndian.PutUint32(b[0:], uint32(flags))
	binary.LittleEndian.PutUint16(b[4:], uint16(width))
	binary.LittleEndian.PutUint16(b[6:], uint16(height))
	binary.LittleEndian.PutUint16(b[12:], uint16(paletteCount))
	binary.LittleEndian.PutUint16(b[14:], uint16(stretch))
	return b
}

func concat(chunks ...[]byte) []byte {
	var b []byte
	for _, chunk := range chunks {
		b = append(b, chunk...)
	}
	return b
}

var (
	// red and blue as little-endian RGB565 words
	rawSolid = concat(
		info(FlagBytesPerPixel2|FlagNoAlpha, 2, 1, 0, 0),
		[]byte{0x00, 0xf8, 0x1f, 0x00},
	)

	// red and blue with a full alpha plane
	rawGhost = concat(
		info(FlagBytesPerPixel2|FlagHasAlpha|FlagFullAlpha, 2, 1, 0, 1),
		[]byte{0x00, 0xf8, 0x1f, 0x00},
		[]byte{0x80, 0xff},
	)

	// black/white palette with one transparent pixel via simple alpha
	rawMasked = concat(
		info(FlagBytesPerPixel2|FlagHasAlpha, 2, 1, 0, 0),
		[]byte{0x00, 0x00, 0xff, 0xff},
	)

	rawPaletted = concat(
		info(FlagBytesPerPixel2|FlagNoAlpha, 2, 2, 2, 0),
		[]byte{0, 1, 1, 0},
		[]byte{0x00, 0x00, 0xff, 0xff},
	)
)

func TestDecode(t *testing.T) {
	raw := buildArchive(
		rawTexture{"solid", rawSolid},
		rawTexture{"ghost", rawGhost},
		rawTexture{"masked", rawMasked},
		rawTexture{"paletted", rawPaletted},
	)

	textures, err := Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, textures, 4)

	solid := textures[0]
	assert.Equal(t, "solid", solid.Name)
	assert.Equal(t, FlagBytesPerPixel2|FlagNoAlpha, solid.Flags)
	assert.Equal(t, uint16(0), solid.PaletteCount)
	if m, ok := solid.Image.(*image.NRGBA); assert.True(t, ok) {
		assert.Equal(t, image.Rect(0, 0, 2, 1), m.Bounds())
		assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, m.Pix)
	}

	ghost := textures[1]
	assert.Equal(t, uint16(1), ghost.Stretch)
	if m, ok := ghost.Image.(*image.NRGBA); assert.True(t, ok) {
		assert.Equal(t, []byte{255, 0, 0, 0x80, 0, 0, 255, 255}, m.Pix)
	}

	masked := textures[2]
	if m, ok := masked.Image.(*image.NRGBA); assert.True(t, ok) {
		assert.Equal(t, []byte{0, 0, 0, 0, 255, 255, 255, 255}, m.Pix)
	}

	paletted := textures[3]
	assert.Equal(t, uint16(2), paletted.PaletteCount)
	if m, ok := paletted.Image.(*image.Paletted); assert.True(t, ok) {
		assert.Equal(t, []byte{0, 1, 1, 0}, m.Pix)
		require.Len(t, m.Palette, 2)
		assert.Equal(t, color.NRGBA{0, 0, 0, 255}, m.Palette[0])
		assert.Equal(t, color.NRGBA{255, 255, 255, 255}, m.Palette[1])
	}
}

func TestDecodePalettedFullAlpha(t *testing.T) {
	raw := buildArchive(rawTexture{"both", concat(
		info(FlagBytesPerPixel2|FlagHasAlpha|FlagFullAlpha, 2, 1, 2, 0),
		[]byte{0, 1},
		[]byte{0xff, 0x00},
		[]byte{0x00, 0xf8, 0x1f, 0x00},
	)})

	textures, err := Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, textures, 1)

	both := textures[0]
	assert.Equal(t, []byte{255, 0, 0, 0, 0, 255}, both.Palette)
	if m, ok := both.Image.(*image.NRGBA); assert.True(t, ok) {
		assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 0}, m.Pix)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	raw := buildArchive(
		rawTexture{"solid", rawSolid},
		rawTexture{"ghost", rawGhost},
		rawTexture{"masked", rawMasked},
		rawTexture{"paletted", rawPaletted},
		rawTexture{"both", concat(
			info(FlagBytesPerPixel2|FlagHasAlpha|FlagFullAlpha, 2, 1, 2, 0),
			[]byte{0, 1},
			[]byte{0xff, 0x00},
			[]byte{0x00, 0xf8, 0x1f, 0x00},
		)},
	)

	textures, err := Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, textures))
	assert.Equal(t, raw, b.Bytes())
}

func TestDecodeErrors(t *testing.T) {
	tables := []struct {
		name string
		raw  []byte
		err  string
	}{
		{
			"truncated header",
			buildArchive()[:headerLen-1],
			errNotEnough.Error(),
		},
		{
			"truncated pixels",
			buildArchive(rawTexture{"solid", rawSolid[:len(rawSolid)-1]}),
			errNotEnough.Error(),
		},
		{
			"bad header",
			concat([]byte{1}, buildArchive()[1:]),
			errBadHeader.Error(),
		},
		{
			"undefined flags",
			buildArchive(rawTexture{"bad", concat(
				info(FlagBytesPerPixel2|1<<8, 2, 1, 0, 0),
				[]byte{0x00, 0xf8, 0x1f, 0x00},
			)}),
			`texture: "bad" has undefined flags 0x101`,
		},
		{
			"one byte per pixel",
			buildArchive(rawTexture{"bad", concat(
				info(FlagNoAlpha, 2, 1, 0, 0),
				[]byte{0x00, 0xf8, 0x1f, 0x00},
			)}),
			`texture: "bad" uses one byte per pixel which is not supported`,
		},
		{
			"global palette",
			buildArchive(rawTexture{"bad", concat(
				info(FlagBytesPerPixel2|FlagNoAlpha|FlagUseGlobalPalette, 2, 1, 0, 0),
				[]byte{0x00, 0xf8, 0x1f, 0x00},
			)}),
			errGlobalPalette.Error(),
		},
		{
			"palette index out of range",
			buildArchive(rawTexture{"bad", concat(
				info(FlagBytesPerPixel2|FlagNoAlpha, 2, 2, 2, 0),
				[]byte{0, 1, 2, 0},
				[]byte{0x00, 0x00, 0xff, 0xff},
			)}),
			`texture: "bad" has palette indices out of range`,
		},
		{
			"invalid stretch",
			buildArchive(rawTexture{"bad", concat(
				info(FlagBytesPerPixel2|FlagNoAlpha, 2, 1, 0, 4),
				[]byte{0x00, 0xf8, 0x1f, 0x00},
			)}),
			`texture: "bad" has invalid stretch 4`,
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(table.raw))
			assert.EqualError(t, err, table.err)
		})
	}
}

func TestDecodeBadOffset(t *testing.T) {
	raw := buildArchive(rawTexture{"solid", rawSolid})
	// bump the start offset in the entry table
	binary.LittleEndian.PutUint32(raw[headerLen+nameLen:], 65)

	_, err := Decode(bytes.NewReader(raw))
	assert.EqualError(t, err, `texture: "solid" starts at 65, expected 64`)
}

func TestEncodeNameTooLong(t *testing.T) {
	textures := []Texture{{
		Name:  "a-texture-name-that-is-far-too-long-to-fit",
		Flags: FlagBytesPerPixel2 | FlagNoAlpha,
		Image: image.NewNRGBA(image.Rect(0, 0, 2, 1)),
	}}

	err := Encode(new(bytes.Buffer), textures)
	assert.EqualError(t, err, `texture: name "a-texture-name-that-is-far-too-long-to-fit" is too long`)
}

func TestPalettize(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(m.Pix); i += 4 {
		m.Pix[i] = byte(i)
		m.Pix[i+3] = 0xff
	}

	p := Palettize(m, 16)
	assert.Equal(t, m.Bounds(), p.Bounds())
	assert.True(t, len(p.Palette) <= 16)
}
