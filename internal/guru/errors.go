package guru

import (
	"errors"
	"fmt"
)

// Meditation is a fatal error. A and B form the optional two-part diagnostic
// code shown on the halt panel.
type Meditation struct {
	Msg string
	A   uint32
	B   uint32
}

// New returns a fatal error with a diagnostic code.
func New(msg string, a, b uint32) *Meditation {
	return &Meditation{Msg: msg, A: a, B: b}
}

// Fatalf returns a fatal error with no diagnostic code.
func Fatalf(format string, args ...any) *Meditation {
	return &Meditation{Msg: fmt.Sprintf(format, args...)}
}

func (m *Meditation) Error() string {
	if code := m.Code(); code != "" {
		return m.Msg + " (" + code + ")"
	}
	return m.Msg
}

// Code formats the diagnostic code, or returns "" when neither part is set.
func (m *Meditation) Code() string {
	if m.A == 0 && m.B == 0 {
		return ""
	}
	return fmt.Sprintf("Guru Meditation %08X.%08X", m.A, m.B)
}

// Describe splits any error into the message and code shown on the halt panel.
func Describe(err error) (msg, code string) {
	var m *Meditation
	if errors.As(err, &m) {
		return m.Msg, m.Code()
	}
	return err.Error(), ""
}
