package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/lve/engine/core"
	"github.com/stretchr/testify/assert"
)

func TestTranslateKey(t *testing.T) {
	cases := []struct {
		key  glfw.Key
		want core.KeyCode
	}{
		{glfw.KeyA, core.KEY_A},
		{glfw.KeyW, core.KEY_W},
		{glfw.KeyZ, core.KEY_Z},
		{glfw.Key0, core.KeyCode('0')},
		{glfw.Key9, core.KeyCode('9')},
		{glfw.KeyEscape, core.KEY_ESCAPE},
		{glfw.KeyLeft, core.KEY_LEFT},
		{glfw.KeyDown, core.KEY_DOWN},
		{glfw.KeyLeftShift, core.KEY_LSHIFT},
	}
	for _, c := range cases {
		got, ok := translateKey(c.key)
		assert.True(t, ok, "key %d", c.key)
		assert.Equal(t, c.want, got, "key %d", c.key)
	}

	_, ok := translateKey(glfw.KeyKPEnter)
	assert.False(t, ok)
}

func TestKeyCallbackFiresOnTransitions(t *testing.T) {
	bus := core.NewEventBus()
	var got []core.EventContext
	record := func(ctx core.EventContext) bool {
		got = append(got, ctx)
		return true
	}
	bus.Register(core.EVENT_CODE_KEY_PRESSED, record)
	bus.Register(core.EVENT_CODE_KEY_RELEASED, record)

	p := New(bus)
	p.keyCallback(nil, glfw.KeyW, 0, glfw.Press, 0)
	p.keyCallback(nil, glfw.KeyW, 0, glfw.Repeat, 0)
	p.keyCallback(nil, glfw.KeyW, 0, glfw.Press, 0)
	assert.True(t, p.IsKeyDown(core.KEY_W))

	p.keyCallback(nil, glfw.KeyW, 0, glfw.Release, 0)
	assert.False(t, p.IsKeyDown(core.KEY_W))

	if assert.Len(t, got, 2) {
		assert.Equal(t, core.EVENT_CODE_KEY_PRESSED, got[0].Code)
		assert.Equal(t, core.KEY_W, got[0].KeyCode)
		assert.Equal(t, core.EVENT_CODE_KEY_RELEASED, got[1].Code)
	}
}

func TestFramebufferSizeCallbackRaisesResized(t *testing.T) {
	bus := core.NewEventBus()
	var width, height uint32
	bus.Register(core.EVENT_CODE_RESIZED, func(ctx core.EventContext) bool {
		width, height = ctx.Width, ctx.Height
		return true
	})

	p := New(bus)
	assert.False(t, p.WasResized())
	p.framebufferSizeCallback(nil, 1024, 768)
	assert.True(t, p.WasResized())
	assert.Equal(t, uint32(1024), width)
	assert.Equal(t, uint32(768), height)

	p.ResetResized()
	assert.False(t, p.WasResized())
}
