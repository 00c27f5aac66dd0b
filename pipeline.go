package mech3

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/mech3/texture"
)

const numWorkers = 10

func (m *Mech3) findArchives(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Only texture archives are interesting
			if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(file), ".zbd") {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func writePNG(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, m)
}

func (m *Mech3) extractArchive(file, dir string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	textures, err := texture.Decode(f)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, t := range textures {
		if err := writePNG(filepath.Join(dir, t.Name+".png"), t.Image); err != nil {
			return err
		}
	}

	return writeManifest(dir, textures)
}

func (m *Mech3) extractWorker(ctx context.Context, src, dst string, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			rel, err := filepath.Rel(src, file)
			if err != nil {
				errc <- err
				return
			}

			dir := filepath.Join(dst, strings.TrimSuffix(rel, filepath.Ext(rel)))
			if err := m.extractArchive(file, dir); err != nil {
				errc <- fmt.Errorf("%s: %w", file, err)
				return
			}

			m.logger.Printf("Extracted \"%s\" to \"%s\"\n", file, dir)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Extract walks src for .zbd texture archives and writes every texture out
// as a PNG image under dst, along with a manifest per archive recording
// whatever a PNG cannot, so that Rebuild can reproduce the archive byte for
// byte.
func (m *Mech3) Extract(src, dst string) error {
	base, err := filepath.Abs(src)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := m.findArchives(ctx, base)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < numWorkers; i++ {
		errc, err := m.extractWorker(ctx, base, dst, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
