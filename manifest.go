package mech3

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"

	"github.com/bodgit/mech3/texture"
)

// ManifestFilename is the name of the manifest written alongside the
// extracted images
const ManifestFilename = "manifest.json"

// TextureInfo records the properties of an extracted texture that a PNG
// image cannot carry, so that the archive can be rebuilt byte for byte.
type TextureInfo struct {
	Name         string       `json:"name"`
	Flags        texture.Flag `json:"flags"`
	Stretch      uint16       `json:"stretch,omitempty"`
	PaletteCount uint16       `json:"palette_count,omitempty"`
	Palette      []byte       `json:"palette,omitempty"`
}

type manifest struct {
	Textures []TextureInfo `json:"textures"`
}

func writeManifest(dir string, textures []texture.Texture) error {
	m := manifest{
		Textures: make([]TextureInfo, len(textures)),
	}
	for i, t := range textures {
		m.Textures[i] = TextureInfo{
			Name:         t.Name,
			Flags:        t.Flags,
			Stretch:      t.Stretch,
			PaletteCount: t.PaletteCount,
			Palette:      t.Palette,
		}
	}

	b, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		return err
	}

	return ioutil.WriteFile(filepath.Join(dir, ManifestFilename), b, 0644)
}

func readManifest(dir string) ([]TextureInfo, error) {
	b, err := ioutil.ReadFile(filepath.Join(dir, ManifestFilename))
	if err != nil {
		return nil, err
	}

	var m manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}

	return m.Textures, nil
}
