package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerpath/internal/ui/theme"
)

// Button labels for the manual save action.
const (
	SaveLabel   = "💾 Guardar Progreso"
	SavingLabel = "⏳ Guardando..."
)

// Button is a styled button component. While Busy it shows BusyLabel and
// ignores presses.
type Button struct {
	Label     string
	BusyLabel string
	Active    bool
	Busy      bool
	OnPress   func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Active:  active,
		OnPress: onPress,
	}
}

// NewSaveButton creates the manual save button.
func NewSaveButton(onPress func() tea.Cmd) Button {
	b := NewButton(SaveLabel, true, onPress)
	b.BusyLabel = SavingLabel
	return b
}

// Press triggers the button unless it is busy or inactive.
func (b Button) Press() tea.Cmd {
	if !b.Active || b.Busy || b.OnPress == nil {
		return nil
	}
	return b.OnPress()
}

// Text returns the label currently shown.
func (b Button) Text() string {
	if b.Busy && b.BusyLabel != "" {
		return b.BusyLabel
	}
	return b.Label
}

// View renders the button.
func (b Button) View() string {
	label := " " + b.Text() + " "
	if b.Active && !b.Busy {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
