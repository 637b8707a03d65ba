package menu

import (
	"context"

	"github.com/AlecAivazis/survey/v2"
)

// Prompter asks the user questions. Implementations return terminal.InterruptErr on Ctrl-C.
type Prompter interface {
	// Select returns the chosen index. Only SurveyPrompter guarantees it is in range.
	Select(message string, options []string) (int, error)
	Input(message string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter asks questions on the terminal
type SurveyPrompter struct{}

// NewSurveyPrompter creates a terminal Prompter
func NewSurveyPrompter() *SurveyPrompter {
	return &SurveyPrompter{}
}

func (SurveyPrompter) Select(message string, options []string) (int, error) {
	var index int
	err := survey.AskOne(&survey.Select{Message: message, Options: options}, &index)
	return index, err
}

func (SurveyPrompter) Input(message string) (string, error) {
	var response string
	err := survey.AskOne(&survey.Input{Message: message}, &response)
	return response, err
}

func (SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	var response bool
	err := survey.AskOne(&survey.Confirm{Message: message, Default: defaultValue}, &response)
	return response, err
}

// Confirmer adapts a Prompter to the crawl confirmation gate
type Confirmer struct {
	prompter Prompter
}

// NewConfirmer creates a Confirmer asking through prompter
func NewConfirmer(prompter Prompter) *Confirmer {
	return &Confirmer{prompter: prompter}
}

func (c *Confirmer) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return c.prompter.Confirm(message, true)
}
