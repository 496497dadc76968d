package session

// Key is a key the editor reacts to, independent of the GUI toolkit.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeyUp
	KeySpace
	KeyBackspace
)

// Action tells the overlay what a key press asks it to do.
type Action int

const (
	ActionNone Action = iota
	ActionCancel
	ActionConfirm
	ActionShowToolbar
	ActionModeToggled
	ActionSelectionReset
)

// HandleKey applies the state changes bound to k and returns what the view has to do
// next. Cancel and confirm are left to the caller, which owns the window.
func (s *Session) HandleKey(k Key) Action {
	if s.closed {
		return ActionNone
	}
	switch k {
	case KeyEscape:
		return ActionCancel
	case KeyEnter:
		return ActionConfirm
	case KeyUp:
		return ActionShowToolbar
	case KeySpace:
		if s.ToggleMode() {
			return ActionModeToggled
		}
	case KeyBackspace:
		if s.Reset() {
			return ActionSelectionReset
		}
	}
	return ActionNone
}
