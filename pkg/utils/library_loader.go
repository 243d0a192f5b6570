package utils

import (
	"fmt"
	"io/fs"
	"log"

	"github.com/decker502/spriteanim/pkg/animator"
	"github.com/decker502/spriteanim/pkg/config"
	"github.com/decker502/spriteanim/pkg/library"
	"github.com/decker502/spriteanim/pkg/scripting"
	"github.com/decker502/spriteanim/pkg/types"
)

// LoadedLibrary is a manifest turned into runtime data: the clip library,
// its alternative variants and the compiled frame-event scripts.
type LoadedLibrary struct {
	Manifest *config.LibraryManifest
	Library  *library.Library
	Variants *library.Library
	Scripts  map[string]*scripting.FrameScript
}

// LoadLibrary builds the clip library described by a manifest.
//
// Parameters:
//   - m: A validated manifest (see config.ParseLibraryManifest)
//   - frames: Loader for frame images
//   - scripts: File system holding the manifest's tengo scripts (nil if the manifest has none)
//
// Returns:
//   - *LoadedLibrary: Library, variants and compiled scripts
//   - error: The first frame, clip or script that failed to load
func LoadLibrary(m *config.LibraryManifest, frames *FrameLoader, scripts fs.FS) (*LoadedLibrary, error) {
	if m == nil {
		return nil, fmt.Errorf("manifest is nil")
	}

	loaded := &LoadedLibrary{
		Manifest: m,
		Library:  library.NewLibrary(),
		Variants: library.NewLibrary(),
		Scripts:  make(map[string]*scripting.FrameScript),
	}

	if err := addClips(loaded.Library, m, m.Clips, frames); err != nil {
		return nil, err
	}
	if err := addClips(loaded.Variants, m, m.Alternates, frames); err != nil {
		return nil, err
	}

	for _, path := range m.Scripts() {
		if scripts == nil {
			return nil, fmt.Errorf("manifest '%s' references script '%s' but no script file system was given", m.ID, path)
		}
		script, err := scripting.Load(scripts, path)
		if err != nil {
			return nil, fmt.Errorf("manifest '%s': %w", m.ID, err)
		}
		loaded.Scripts[path] = script
	}

	log.Printf("[LibraryLoader] Loaded manifest '%s': %d actions, %d variant clips, %d scripts",
		m.ID, loaded.Library.Len(), len(loaded.Variants.Clips()), len(loaded.Scripts))
	return loaded, nil
}

func addClips(lib *library.Library, m *config.LibraryManifest, clips []config.ClipSpec, frames *FrameLoader) error {
	for i := range clips {
		cs := &clips[i]
		images, err := frames.LoadAll(cs.FramePaths(m.Root), cs.Color)
		if err != nil {
			return fmt.Errorf("manifest '%s' clip %s_%s: %w", m.ID, cs.Action, cs.Direction, err)
		}
		clip := library.NewAnimationClip(m.Category, cs.Action, cs.Direction, m.ClipFPS(cs), images)
		if err := lib.AddAction(cs.Action, clip); err != nil {
			return fmt.Errorf("manifest '%s': %w", m.ID, err)
		}
	}
	return nil
}

// BindEvents registers the manifest's frame events on a driver.
//
// Events are appended (Extend), so several manifest entries on the same frame
// all run. An entry with both emit and script emits first, then runs the script.
// "last" entries are registered on the last frame of each direction.
func (l *LoadedLibrary) BindEvents(d *animator.Driver, emit scripting.EmitFunc) error {
	for i := range l.Manifest.Events {
		ev := l.Manifest.Events[i]
		cb := l.eventCallback(ev, d, emit)

		if !ev.Last {
			var err error
			if ev.Direction.IsSet() {
				err = d.ExtendDirectionalFrameEvent(ev.Action, ev.Direction, ev.Frame, cb)
			} else {
				err = d.ExtendFrameEvent(ev.Action, ev.Frame, cb)
			}
			if err != nil {
				return fmt.Errorf("manifest '%s' event #%d: %w", l.Manifest.ID, i, err)
			}
			continue
		}

		dirs := l.Library.DirectionsFor(ev.Action)
		if ev.Direction.IsSet() {
			dirs = []types.Direction{ev.Direction}
		}
		for _, dir := range dirs {
			clip, ok := l.Library.Clip(ev.Action, dir)
			if !ok {
				return fmt.Errorf("manifest '%s' event #%d: %w", l.Manifest.ID, i, animator.ErrUnknownDirection)
			}
			if err := d.ExtendDirectionalFrameEvent(ev.Action, dir, clip.LastIndex(), cb); err != nil {
				return fmt.Errorf("manifest '%s' event #%d: %w", l.Manifest.ID, i, err)
			}
		}
	}
	return nil
}

func (l *LoadedLibrary) eventCallback(ev config.FrameEventSpec, d *animator.Driver, emit scripting.EmitFunc) func() {
	var run func()
	if script, ok := l.Scripts[ev.Script]; ok {
		run = script.Bind(d, emit)
	}
	signal := ev.Emit

	return func() {
		if signal != "" && emit != nil {
			emit(signal)
		}
		if run != nil {
			run()
		}
	}
}

// BuildAnimator creates a driver for cfg on top of the loaded library,
// wires the sink and binds the manifest's frame events.
func BuildAnimator(cfg *config.AnimatorConfig, loaded *LoadedLibrary, sink animator.FrameSink, emit scripting.EmitFunc) (*animator.Driver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("animator config is nil")
	}
	if loaded == nil {
		return nil, fmt.Errorf("animator '%s': library is nil", cfg.Name)
	}

	opts := animator.OptionsFromConfig(cfg)
	opts.Variants = loaded.Variants
	opts.Sink = sink

	d := animator.New(loaded.Library, opts)
	if err := loaded.BindEvents(d, emit); err != nil {
		return nil, fmt.Errorf("animator '%s': %w", cfg.Name, err)
	}
	return d, nil
}
