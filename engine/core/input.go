package core

import (
	"fmt"
	"strings"
)

// Key code definitions
type KeyCode uint16

const (
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_SHIFT     KeyCode = 0x10
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_A         KeyCode = 0x41
	KEY_B         KeyCode = 0x42
	KEY_C         KeyCode = 0x43
	KEY_D         KeyCode = 0x44
	KEY_E         KeyCode = 0x45
	KEY_F         KeyCode = 0x46
	KEY_G         KeyCode = 0x47
	KEY_H         KeyCode = 0x48
	KEY_I         KeyCode = 0x49
	KEY_J         KeyCode = 0x4A
	KEY_K         KeyCode = 0x4B
	KEY_L         KeyCode = 0x4C
	KEY_M         KeyCode = 0x4D
	KEY_N         KeyCode = 0x4E
	KEY_O         KeyCode = 0x4F
	KEY_P         KeyCode = 0x50
	KEY_Q         KeyCode = 0x51
	KEY_R         KeyCode = 0x52
	KEY_S         KeyCode = 0x53
	KEY_T         KeyCode = 0x54
	KEY_U         KeyCode = 0x55
	KEY_V         KeyCode = 0x56
	KEY_W         KeyCode = 0x57
	KEY_X         KeyCode = 0x58
	KEY_Y         KeyCode = 0x59
	KEY_Z         KeyCode = 0x5A
	KEY_F1        KeyCode = 0x70
	KEY_F2        KeyCode = 0x71
	KEY_F3        KeyCode = 0x72
	KEY_F4        KeyCode = 0x73
	KEY_LSHIFT    KeyCode = 0xA0
	KEY_RSHIFT    KeyCode = 0xA1
	KEY_LCONTROL  KeyCode = 0xA2
	KEY_RCONTROL  KeyCode = 0xA3
	KEYS_MAX_KEYS KeyCode = 0xFF
)

var namedKeys = map[string]KeyCode{
	"backspace": KEY_BACKSPACE,
	"tab":       KEY_TAB,
	"enter":     KEY_ENTER,
	"escape":    KEY_ESCAPE,
	"space":     KEY_SPACE,
	"left":      KEY_LEFT,
	"up":        KEY_UP,
	"right":     KEY_RIGHT,
	"down":      KEY_DOWN,
	"lshift":    KEY_LSHIFT,
	"rshift":    KEY_RSHIFT,
	"lcontrol":  KEY_LCONTROL,
	"rcontrol":  KEY_RCONTROL,
}

// KeyCodeFromName resolves a key as written in the configuration file: a
// single letter or digit, or one of the named keys (left, space, ...).
func KeyCodeFromName(name string) (KeyCode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if len(n) == 1 {
		c := n[0]
		switch {
		case c >= 'a' && c <= 'z':
			return KEY_A + KeyCode(c-'a'), nil
		case c >= '0' && c <= '9':
			return KeyCode(c), nil
		}
	}
	if k, ok := namedKeys[n]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// KeyState is the read side of the keyboard.
type KeyState interface {
	IsKeyDown(key KeyCode) bool
}

// Keyboard state structure that holds the current and previous key states.
type Keyboard struct {
	current  [KEYS_MAX_KEYS + 1]bool
	previous [KEYS_MAX_KEYS + 1]bool
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Update copies the current state to the previous one. Call once per frame.
func (k *Keyboard) Update() {
	k.previous = k.current
}

// ProcessKey records a key transition and reports whether the state changed.
func (k *Keyboard) ProcessKey(key KeyCode, pressed bool) bool {
	if key > KEYS_MAX_KEYS || k.current[key] == pressed {
		return false
	}
	k.current[key] = pressed
	return true
}

func (k *Keyboard) IsKeyDown(key KeyCode) bool {
	return key <= KEYS_MAX_KEYS && k.current[key]
}

func (k *Keyboard) IsKeyUp(key KeyCode) bool {
	return !k.IsKeyDown(key)
}

func (k *Keyboard) WasKeyDown(key KeyCode) bool {
	return key <= KEYS_MAX_KEYS && k.previous[key]
}

func (k *Keyboard) WasKeyUp(key KeyCode) bool {
	return !k.WasKeyDown(key)
}
