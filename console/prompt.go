package console

import (
	"errors"
	"io"

	"github.com/manifoldco/promptui"

	"github.com/sagarc03/bucketctl"
)

// PromptUI implements bucketctl.Prompter on a terminal with promptui.
type PromptUI struct {
	// Stdin and Stdout default to the process streams when nil.
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

var _ bucketctl.Prompter = (*PromptUI)(nil)

// Prompt shows label and returns the entered line.
func (p *PromptUI) Prompt(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:  label,
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}
	answer, err := prompt.Run()
	if err != nil {
		return "", TranslatePromptError(err)
	}
	return answer, nil
}

// Confirm asks a yes/no question. Any answer other than yes is reported as
// false with no error; an interrupt returns bucketctl.ErrCancelled.
func (p *PromptUI) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     p.Stdin,
		Stdout:    p.Stdout,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, TranslatePromptError(err)
	}
	return true, nil
}

// Ask shows label with a default value. When mask is set the typed
// characters are hidden.
func (p *PromptUI) Ask(label, def string, mask bool, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
		Stdin:    p.Stdin,
		Stdout:   p.Stdout,
	}
	if mask {
		prompt.Mask = '*'
	}
	answer, err := prompt.Run()
	if err != nil {
		return "", TranslatePromptError(err)
	}
	return answer, nil
}

// TranslatePromptError maps promptui's interrupt, EOF and abort errors to
// bucketctl.ErrCancelled. Other errors are returned unchanged.
func TranslatePromptError(err error) error {
	switch {
	case errors.Is(err, promptui.ErrInterrupt),
		errors.Is(err, promptui.ErrEOF),
		errors.Is(err, promptui.ErrAbort):
		return bucketctl.ErrCancelled
	default:
		return err
	}
}
