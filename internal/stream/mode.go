package stream

// Mode is the editor's interaction mode.
type Mode int

const (
	// ModePan is the default mode: pointer drags move the camera and paint input is ignored.
	ModePan Mode = iota
	// ModePaint routes pointer input to the brush and disables camera panning.
	ModePaint
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModePan:
		return "pan"
	case ModePaint:
		return "paint"
	default:
		return "unknown"
	}
}
