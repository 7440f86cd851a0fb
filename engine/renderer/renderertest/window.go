package renderertest

import (
	"github.com/spaghettifunk/lve/engine/core"
	"github.com/spaghettifunk/lve/engine/renderer/metadata"
)

// Window is a fake window whose framebuffer size is driven by the test.
type Window struct {
	// Pending extents applied one per WaitEvents call, simulating the user
	// restoring a minimized window.
	Pending   []metadata.Extent2D
	WaitCalls int
	extent    metadata.Extent2D
	resized   bool
	keys      map[core.KeyCode]bool
}

func NewWindow(width, height uint32) *Window {
	return &Window{
		extent: metadata.Extent2D{Width: width, Height: height},
		keys:   make(map[core.KeyCode]bool),
	}
}

// Resize changes the framebuffer size and raises the resized flag.
func (w *Window) Resize(width, height uint32) {
	w.extent = metadata.Extent2D{Width: width, Height: height}
	w.resized = true
}

func (w *Window) Extent() metadata.Extent2D {
	return w.extent
}

func (w *Window) WaitEvents() {
	w.WaitCalls++
	if len(w.Pending) > 0 {
		w.extent, w.Pending = w.Pending[0], w.Pending[1:]
		w.resized = true
	}
}

func (w *Window) WasResized() bool {
	return w.resized
}

func (w *Window) ResetResized() {
	w.resized = false
}

// Press marks a key as held down.
func (w *Window) Press(keys ...core.KeyCode) {
	for _, k := range keys {
		w.keys[k] = true
	}
}

func (w *Window) ReleaseAll() {
	clear(w.keys)
}

func (w *Window) IsKeyDown(key core.KeyCode) bool {
	return w.keys[key]
}
