package tty

// Prefs pins a text terminal to one cell per tile with the shader off. It
// never touches the saved preferences, which belong to the windowed backend.
type Prefs struct{}

func (Prefs) TileScale() int               { return 1 }
func (Prefs) SetTileScale(int) error       { return nil }
func (Prefs) Shader() bool                 { return false }
func (Prefs) SetShader(bool) error         { return nil }
func (Prefs) ShaderGeometry() bool         { return false }
func (Prefs) SetShaderGeometry(bool) error { return nil }
func (Prefs) AutoRescale() bool            { return false }
func (Prefs) SetAutoRescale(bool) error    { return nil }
