package ui

// Mode is what the keyboard is currently driving
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdd
	ModeRename
	ModeNewTag
	ModeEmail
	ModePassword
	ModeConfirmReset
	ModeMove
)

// String returns the prompt label for a mode
func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "New task"
	case ModeRename:
		return "Rename"
	case ModeNewTag:
		return "New tag"
	case ModeEmail:
		return "Email"
	case ModePassword:
		return "Password"
	case ModeConfirmReset:
		return "Reset"
	case ModeMove:
		return "Move"
	default:
		return "Normal"
	}
}

// IsInput reports whether keys go to the text input
func (m Mode) IsInput() bool {
	switch m {
	case ModeAdd, ModeRename, ModeNewTag, ModeEmail, ModePassword:
		return true
	}
	return false
}
