package terminal

// Key is a normalized input code. Printable ASCII keys are their own
// character value; everything else lives above the byte range.
type Key int32

const KeyNone Key = 0

const (
	KeyResize Key = iota + 0x1000
	KeyBackspace
	KeyTab
	KeyEnter
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
)

// Printable reports whether k is a visible ASCII character or space.
func (k Key) Printable() bool { return k >= ' ' && k <= '~' }

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// EventKind tags a platform event.
type EventKind uint8

const (
	EventClosed EventKind = iota + 1
	EventResized
	EventText
	EventKey
)

// Event is a raw event from a Display, before normalization. Resized events
// carry the new pixel size, text events a rune, key events a Key and the
// modifiers held at the time.
type Event struct {
	Kind   EventKind
	Width  int
	Height int
	Rune   rune
	Key    Key
	Mods   Modifiers
}

// passthrough lists the special keys GetKey returns to the caller. Function
// keys F1 to F5 are handled by the terminal itself.
var passthrough = map[Key]bool{
	KeyBackspace: true, KeyTab: true, KeyEnter: true,
	KeyArrowUp: true, KeyArrowDown: true, KeyArrowLeft: true, KeyArrowRight: true,
	KeyDelete: true, KeyInsert: true, KeyHome: true, KeyEnd: true,
	KeyPageUp: true, KeyPageDown: true, KeyEscape: true,
	KeyF7: true, KeyF8: true, KeyF9: true, KeyF10: true, KeyF11: true, KeyF12: true,
	KeyKP0: true, KeyKP1: true, KeyKP2: true, KeyKP3: true, KeyKP4: true,
	KeyKP5: true, KeyKP6: true, KeyKP7: true, KeyKP8: true, KeyKP9: true,
}
