package core

// Action is a control intent, abstracted from physical key presses.
// Printable keys are typing input and never map to an action.
type Action int

const (
	ActionNone        Action = iota
	ActionUp                 // Up arrow - menu navigation
	ActionDown               // Down arrow - menu navigation
	ActionConfirm            // Enter - confirm selection
	ActionBack               // Esc - back to menu
	ActionRestart            // Ctrl+R - new innings
	ActionEditLineup         // Ctrl+E - open the lineup editor
	ActionSave               // Ctrl+S - save lineup
	ActionQuit               // Ctrl+C - exit
	ActionNextField          // Tab - next field
	ActionPrevField          // Shift+Tab - previous field
	ActionToggleHelp         // F1 - expand help
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionEditLineup:
		return "EditLineup"
	case ActionSave:
		return "Save"
	case ActionQuit:
		return "Quit"
	case ActionNextField:
		return "NextField"
	case ActionPrevField:
		return "PrevField"
	case ActionToggleHelp:
		return "ToggleHelp"
	default:
		return "Unknown"
	}
}
