package utils

import (
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/decker502/spriteanim/pkg/config"
	"github.com/decker502/spriteanim/pkg/types"
)

const knightManifest = `
id: knight
category: knight
fps: 10
clips:
  - {action: idle, direction: S, pattern: "idle_%d.png", count: 2, color: steelblue}
  - {action: attack, direction: S, pattern: "attack_%d.png", count: 3}
  - {action: attack, direction: E, pattern: "attack_e_%d.png", count: 3, fps: 20}
alternates:
  - {action: idle-0, direction: S, frames: [idle_alt.png]}
events:
  - {action: attack, frame: 1, emit: swing}
  - {action: attack, last: true, emit: done, script: scripts/after_attack.tengo}
`

func loadKnight(t *testing.T) *LoadedLibrary {
	t.Helper()
	m, err := config.ParseLibraryManifest([]byte(knightManifest), "knight")
	if err != nil {
		t.Fatalf("ParseLibraryManifest failed: %v", err)
	}

	fsys := fstest.MapFS{
		"idle_0.png":                 {Data: pngBytes(t, 4, 4)},
		"scripts/after_attack.tengo": {Data: []byte(`on_frame := func(engine, state) { engine.enqueue("idle") }`)},
	}
	frames := NewFrameLoader(fsys)
	frames.AllowPlaceholders = true

	loaded, err := LoadLibrary(m, frames, fsys)
	if err != nil {
		t.Fatalf("LoadLibrary failed: %v", err)
	}
	return loaded
}

func TestLoadLibrary(t *testing.T) {
	loaded := loadKnight(t)

	if got := loaded.Library.Actions(); !reflect.DeepEqual(got, []string{"attack", "idle"}) {
		t.Errorf("Actions = %v, want [attack idle]", got)
	}
	if n := loaded.Library.FrameCount("attack", types.DirectionE); n != 3 {
		t.Errorf("attack E frames = %d, want 3", n)
	}
	clip, ok := loaded.Library.Clip("attack", types.DirectionE)
	if !ok || clip.FPS != 20 {
		t.Errorf("attack E fps = %v, want 20", clip)
	}
	if !loaded.Variants.HasAction("idle-0") {
		t.Error("variants should contain idle-0")
	}
	if _, ok := loaded.Scripts["scripts/after_attack.tengo"]; !ok {
		t.Error("script was not compiled")
	}
}

func TestLoadLibrary_MissingScriptFS(t *testing.T) {
	m, err := config.ParseLibraryManifest([]byte(knightManifest), "knight")
	if err != nil {
		t.Fatalf("ParseLibraryManifest failed: %v", err)
	}
	frames := NewFrameLoader(fstest.MapFS{})
	frames.AllowPlaceholders = true

	if _, err := LoadLibrary(m, frames, nil); err == nil {
		t.Error("expected error when scripts cannot be loaded")
	}
}

func TestBuildAnimator_BindsEvents(t *testing.T) {
	loaded := loadKnight(t)

	cfg := &config.AnimatorConfig{
		Name:             "knight",
		DefaultAction:    "attack",
		DefaultDirection: types.DirectionS,
		Seed:             1,
	}
	var emitted []string
	d, err := BuildAnimator(cfg, loaded, nil, func(name string) { emitted = append(emitted, name) })
	if err != nil {
		t.Fatalf("BuildAnimator failed: %v", err)
	}
	if d.AlternativeCount() != 0 || d.CurrentAction() != "attack" {
		t.Fatalf("unexpected initial state: %s", d)
	}

	for i := 0; i < 3; i++ {
		d.Tick(0.11)
	}

	if !reflect.DeepEqual(emitted, []string{"swing", "done"}) {
		t.Errorf("emitted = %v, want [swing done]", emitted)
	}
	if d.CurrentAction() != "idle" {
		t.Errorf("action = %q, want idle (queued by script)", d.CurrentAction())
	}
	if d.AlternativeCount() != 2 {
		t.Errorf("AlternativeCount = %d, want 2 for idle", d.AlternativeCount())
	}
}

func TestBuildAnimator_NilArguments(t *testing.T) {
	if _, err := BuildAnimator(nil, nil, nil, nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := BuildAnimator(nil, loadKnight(t), nil, nil); err == nil {
		t.Error("expected error for nil config with a loaded library")
	}
	if _, err := BuildAnimator(&config.AnimatorConfig{Name: "knight"}, nil, nil, nil); err == nil {
		t.Error("expected error for nil library")
	}
}
