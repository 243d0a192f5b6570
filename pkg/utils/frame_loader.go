package utils

import (
	"errors"
	"fmt"
	"image/color"
	_ "image/png" // 注册 PNG 解码器
	"io/fs"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/image/colornames"
)

// DefaultPlaceholderSize is the edge length of generated placeholder frames.
const DefaultPlaceholderSize = 32

// FrameLoader loads animation frame images from a file system and caches them by path.
//
// When AllowPlaceholders is true, a missing frame file is replaced by a solid
// square filled with the clip's placeholder colour, so manifests can be
// previewed before the artwork exists.
type FrameLoader struct {
	fsys  fs.FS
	cache map[string]*ebiten.Image

	AllowPlaceholders bool
	PlaceholderSize   int
}

// NewFrameLoader creates a loader reading from fsys.
func NewFrameLoader(fsys fs.FS) *FrameLoader {
	return &FrameLoader{
		fsys:            fsys,
		cache:           make(map[string]*ebiten.Image),
		PlaceholderSize: DefaultPlaceholderSize,
	}
}

// Load returns the frame image at path.
//
// Parameters:
//   - path: Path inside the loader's file system, e.g. "hero/walk_e_0.png"
//   - placeholder: Colour name (see colornames) used when the file is missing
//
// Returns:
//   - *ebiten.Image: The decoded (or placeholder) frame
//   - error: Read/decode error, or fs.ErrNotExist when placeholders are disabled
func (l *FrameLoader) Load(path, placeholder string) (*ebiten.Image, error) {
	if img, ok := l.cache[path]; ok {
		return img, nil
	}

	img, _, err := ebitenutil.NewImageFromFileSystem(l.fsys, path)
	if err != nil {
		if !l.AllowPlaceholders || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load frame '%s': %w", path, err)
		}
		log.Printf("[FrameLoader] Frame '%s' not found, using %s placeholder", path, placeholderName(placeholder))
		img = NewPlaceholderFrame(l.PlaceholderSize, PlaceholderColor(placeholder))
	}

	l.cache[path] = img
	return img, nil
}

// LoadAll loads every path in order.
func (l *FrameLoader) LoadAll(paths []string, placeholder string) ([]*ebiten.Image, error) {
	frames := make([]*ebiten.Image, 0, len(paths))
	for _, p := range paths {
		img, err := l.Load(p, placeholder)
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
	return frames, nil
}

// CachedCount returns the number of cached frames.
func (l *FrameLoader) CachedCount() int {
	return len(l.cache)
}

// ClearCache drops all cached frames (used before a hot reload).
func (l *FrameLoader) ClearCache() {
	l.cache = make(map[string]*ebiten.Image)
}

// NewPlaceholderFrame creates a size×size image filled with c.
func NewPlaceholderFrame(size int, c color.Color) *ebiten.Image {
	if size <= 0 {
		size = DefaultPlaceholderSize
	}
	img := ebiten.NewImage(size, size)
	img.Fill(c)
	return img
}

// PlaceholderColor looks up a colour by its SVG name ("orange", "SteelBlue").
// Unknown or empty names fall back to magenta.
func PlaceholderColor(name string) color.RGBA {
	if c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return colornames.Magenta
}

func placeholderName(name string) string {
	if _, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]; ok {
		return name
	}
	return "magenta"
}
