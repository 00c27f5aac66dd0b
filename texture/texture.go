/*
Package texture implements a MechWarrior 3 texture archive decoder and
encoder.

A texture archive is a .zbd file holding a number of named textures. The
file starts with a 24 byte header, followed by a table of 40 byte entries
recording the name and offset of each texture, followed by the textures
themselves in table order with no gaps. Each texture is a 16 byte
information record followed by the pixel data, an optional alpha plane and
an optional palette.

Pixels are either packed little-endian RGB565 words, or single palette index
bytes if the texture has a palette. Palette colors are themselves packed
RGB565 words. Alpha is one byte per pixel. Textures flagged with one byte
per pixel or referencing a global palette exist in the file format but are
not used by the game files seen so far and so are not supported.
*/
package texture

import (
	"errors"
	"image"
)

const (
	headerLen = 24
	entryLen  = 40
	infoLen   = 16

	nameLen = 32

	// no texture references a global palette
	noGlobalPalette = -1
)

// Flag describes the properties of a texture.
type Flag uint32

const (
	// FlagBytesPerPixel2 is set when pixels are 16-bit RGB565 words rather
	// than single palette index bytes.
	FlagBytesPerPixel2 Flag = 1 << iota
	// FlagHasAlpha is set when the texture has an alpha channel. Without
	// FlagFullAlpha the alpha is derived from the pixels; zero is
	// transparent, everything else is opaque.
	FlagHasAlpha
	// FlagNoAlpha is set when the texture has no alpha channel.
	FlagNoAlpha
	// FlagFullAlpha is set when a full alpha plane follows the pixel data.
	FlagFullAlpha
	// FlagUseGlobalPalette is set when the texture uses a palette shared
	// across the archive.
	FlagUseGlobalPalette
	// FlagImageLoaded, FlagAlphaLoaded and FlagPaletteLoaded track buffer
	// allocations inside the game engine; they carry no meaning on disk but
	// do occur in game files and must be preserved.
	FlagImageLoaded
	FlagAlphaLoaded
	FlagPaletteLoaded

	flagMask = FlagPaletteLoaded<<1 - 1
)

// Has reports whether all flags in mask are set.
func (f Flag) Has(mask Flag) bool {
	return f&mask == mask
}

var (
	errNotEnough     = errors.New("texture: not enough archive data")
	errBadHeader     = errors.New("texture: malformed archive header")
	errGlobalPalette = errors.New("texture: global palettes are not supported")
)

// Texture is a single named texture from an archive.
type Texture struct {
	// Name is the texture name, without any file extension.
	Name string
	// Image holds the decoded pixels. It is an *image.Paletted for
	// paletted textures without an alpha plane, otherwise an *image.NRGBA.
	Image image.Image
	// Flags describe the texture properties.
	Flags Flag
	// Stretch records how the game scales the texture at load time; 1
	// doubles the width, 2 the height, 3 both. The pixel data is stored
	// unscaled.
	Stretch uint16
	// PaletteCount is the number of palette colors, or zero if the texture
	// is not paletted.
	PaletteCount uint16
	// Palette holds the expanded RGB888 palette for paletted textures that
	// also carry an alpha plane, as those decode to an *image.NRGBA and the
	// palette would otherwise be lost.
	Palette []byte
}
