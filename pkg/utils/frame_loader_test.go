package utils

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"golang.org/x/image/colornames"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestFrameLoader_LoadAndCache(t *testing.T) {
	fsys := fstest.MapFS{
		"hero/walk_0.png": {Data: pngBytes(t, 8, 4)},
	}
	loader := NewFrameLoader(fsys)

	img, err := loader.Load("hero/walk_0.png", "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 8 || h != 4 {
		t.Errorf("size = %dx%d, want 8x4", w, h)
	}

	again, _ := loader.Load("hero/walk_0.png", "")
	if again != img {
		t.Error("second Load should return the cached image")
	}
	if loader.CachedCount() != 1 {
		t.Errorf("CachedCount = %d, want 1", loader.CachedCount())
	}

	loader.ClearCache()
	if loader.CachedCount() != 0 {
		t.Errorf("CachedCount = %d after ClearCache", loader.CachedCount())
	}
}

func TestFrameLoader_Missing(t *testing.T) {
	loader := NewFrameLoader(fstest.MapFS{})

	if _, err := loader.Load("missing.png", "red"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}

	loader.AllowPlaceholders = true
	loader.PlaceholderSize = 16
	img, err := loader.Load("missing.png", "red")
	if err != nil {
		t.Fatalf("Load with placeholders failed: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("placeholder size = %d, want 16", img.Bounds().Dx())
	}
}

func TestFrameLoader_CorruptFile(t *testing.T) {
	loader := NewFrameLoader(fstest.MapFS{"bad.png": {Data: []byte("not a png")}})
	loader.AllowPlaceholders = true

	// 只有文件缺失才使用占位图
	if _, err := loader.Load("bad.png", ""); err == nil {
		t.Error("expected decode error for corrupt file")
	}
}

func TestPlaceholderColor(t *testing.T) {
	tests := []struct {
		name string
		want interface{}
	}{
		{"orange", colornames.Orange},
		{" SteelBlue ", colornames.Steelblue},
		{"", colornames.Magenta},
		{"not-a-colour", colornames.Magenta},
	}
	for _, tt := range tests {
		if got := PlaceholderColor(tt.name); got != tt.want {
			t.Errorf("PlaceholderColor(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
