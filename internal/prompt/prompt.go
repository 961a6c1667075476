// Package prompt asks the user for confirmation before risky actions.
package prompt

import (
	"context"
	"errors"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Survey asks on the controlling terminal.
type Survey struct {
	Options []survey.AskOpt
}

// Confirm implements host.Confirmer. An interrupted prompt counts as "no".
func (s Survey) Confirm(_ context.Context, msg string) (bool, error) {
	answer := false
	q := &survey.Confirm{Message: msg, Default: false}

	err := survey.AskOne(q, &answer, s.Options...)
	if errors.Is(err, terminal.InterruptErr) {
		return false, nil
	}

	return answer, err
}

// Fixed answers every question the same way.
type Fixed bool

// Confirm implements host.Confirmer.
func (f Fixed) Confirm(context.Context, string) (bool, error) {
	return bool(f), nil
}
