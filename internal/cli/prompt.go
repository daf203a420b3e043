package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	input "github.com/tcnksm/go-input"
)

// Prompter asks the user for a missing form value.
type Prompter interface {
	Ask(query string, secret bool) (string, error)
}

type ttyPrompter struct {
	ui *input.UI
}

func newTTYPrompter(in io.Reader, out io.Writer) Prompter {
	return &ttyPrompter{ui: &input.UI{Reader: in, Writer: out}}
}

func (p *ttyPrompter) Ask(query string, secret bool) (string, error) {
	return p.ui.Ask(query, &input.Options{
		Required:  true,
		Loop:      true,
		HideOrder: true,
		Mask:      secret,
	})
}

// noPrompter refuses to ask; used when stdin is not a terminal.
type noPrompter struct{}

func (noPrompter) Ask(query string, _ bool) (string, error) {
	return "", errNotInteractive(query)
}

type errNotInteractive string

func (e errNotInteractive) Error() string {
	return "missing value for " + string(e) + " (pass it as a flag or run in a terminal)"
}

func defaultPrompter(in io.Reader, out io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return newTTYPrompter(in, out)
	}
	return noPrompter{}
}

// fill prompts for *v when it is empty.
func fill(p Prompter, v *string, query string, secret bool) error {
	if *v != "" {
		return nil
	}
	answer, err := p.Ask(query, secret)
	if err != nil {
		return err
	}
	*v = answer
	return nil
}
