package core

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01
	// Keyboard key pressed. Context carries KeyCode.
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02
	// Keyboard key released. Context carries KeyCode.
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x03
	// Framebuffer resized. Context carries Width and Height.
	EVENT_CODE_RESIZED SystemEventCode = 0x08
	// A watched shader binary changed on disk. Context carries Path.
	EVENT_CODE_SHADER_CHANGED SystemEventCode = 0x09

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type EventContext struct {
	Code    SystemEventCode
	KeyCode KeyCode
	Width   uint32
	Height  uint32
	Path    string
}

// Should return true if handled.
type FnOnEvent func(ctx EventContext) bool

// EventBus dispatches events synchronously on the calling goroutine.
type EventBus struct {
	registered map[SystemEventCode][]FnOnEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[SystemEventCode][]FnOnEvent),
	}
}

// Register adds a listener for code. Listeners run in registration order.
func (b *EventBus) Register(code SystemEventCode, onEvent FnOnEvent) {
	b.registered[code] = append(b.registered[code], onEvent)
}

// Fire runs the listeners of ctx.Code until one of them reports the event
// handled. It returns whether any listener handled it.
func (b *EventBus) Fire(ctx EventContext) bool {
	for _, fn := range b.registered[ctx.Code] {
		if fn(ctx) {
			return true
		}
	}
	return false
}

func (b *EventBus) Shutdown() {
	clear(b.registered)
}
