package mech3

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/bodgit/mech3/texture"
)

func readPNG(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return png.Decode(f)
}

// Rebuild re-encodes a directory previously produced by Extract into a
// texture archive written to out.
func (m *Mech3) Rebuild(dir, out string) error {
	infos, err := readManifest(dir)
	if err != nil {
		return err
	}

	textures := make([]texture.Texture, len(infos))
	for i, info := range infos {
		img, err := readPNG(filepath.Join(dir, info.Name+".png"))
		if err != nil {
			return err
		}

		textures[i] = texture.Texture{
			Name:         info.Name,
			Image:        img,
			Flags:        info.Flags,
			Stretch:      info.Stretch,
			PaletteCount: info.PaletteCount,
			Palette:      info.Palette,
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := texture.Encode(f, textures); err != nil {
		return err
	}

	m.logger.Printf("Rebuilt \"%s\" from \"%s\"\n", out, dir)

	return nil
}
