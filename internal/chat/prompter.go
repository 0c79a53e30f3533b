package chat

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

// Prompter abstracts the interactive prompts so the session logic can be
// driven without a terminal.
type Prompter interface {
	// Input asks for a line of text. An empty defaultValue means no default;
	// a nil validate accepts anything.
	Input(label, defaultValue string, validate func(string) error) (string, error)

	// Select asks the user to pick one of items, with the cursor starting on
	// index cursor.
	Select(label string, items []string, cursor int) (string, error)

	// Confirm asks a yes/no question and returns the answer.
	Confirm(label string) (bool, error)
}

// terminalPrompter drives promptui against the controlling terminal.
type terminalPrompter struct{}

// NewTerminalPrompter returns the interactive Prompter used by the chat and
// ask commands.
func NewTerminalPrompter() Prompter {
	return terminalPrompter{}
}

func (terminalPrompter) Input(label, defaultValue string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: validate,
	}
	return p.Run()
}

func (terminalPrompter) Select(label string, items []string, cursor int) (string, error) {
	s := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: cursor,
	}
	_, choice, err := s.Run()
	return choice, err
}

func (terminalPrompter) Confirm(label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := p.Run()
	if err != nil {
		// promptui reports "no" as an abort error.
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsInterrupt reports whether the error is the user pressing Ctrl-C or
// Ctrl-D in a prompt.
func IsInterrupt(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF)
}

// ValidateClock accepts a 24-hour HH:MM time of day.
func ValidateClock(s string) error {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != ':' {
		return errors.New("time must be HH:MM")
	}
	hh, mm := s[:2], s[3:]
	if !isDigits(hh) || !isDigits(mm) {
		return errors.New("time must be HH:MM")
	}
	if hh > "23" || mm > "59" {
		return errors.New("time must be a valid 24-hour clock time")
	}
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
