package terminal

import "image"

// Display is the platform surface a Terminal draws to: a GPU window, a text
// terminal, or a fake in tests.
type Display interface {
	// PollEvent returns the next pending event without blocking.
	PollEvent() (Event, bool)
	// PixelSize returns the current size of the output surface in pixels.
	PixelSize() (w, h int)
	// Recreate reallocates the frame buffers for a new pixel size.
	Recreate(w, h int) error
	// Present composites the layers bottom to top and shows the result.
	Present(layers []Layer, opts FrameOptions)
	Close() error
}

// Layer is one window placed on the frame.
type Layer struct {
	Window *Window
	// Origin is the pixel position of the window's top-left tile.
	Origin image.Point
}

// FrameOptions carries the per-frame compositor state to the display.
type FrameOptions struct {
	TileScale int
	// Shader enables the post-process pass and vibrancy boost.
	Shader bool
	// Geometry enables the curved screen and bezel in the shader.
	Geometry bool
	// Ghosting blends the previous frame into the current one.
	Ghosting bool
	// Scanlines is the number of scanlines the shader draws.
	Scanlines int
	// Time is the number of seconds since the terminal started.
	Time float64
}

// Prefs is the subset of user preferences the terminal reads and writes.
type Prefs interface {
	TileScale() int
	SetTileScale(scale int) error
	Shader() bool
	SetShader(on bool) error
	ShaderGeometry() bool
	SetShaderGeometry(on bool) error
	AutoRescale() bool
	SetAutoRescale(on bool) error
}

// SoundPlayer plays named sound effects. Playback is best effort.
type SoundPlayer interface {
	PlaySound(name string)
}
