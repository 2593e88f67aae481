package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks yes/no questions and reads free-form answers on the
// terminal.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter with the given reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Confirm asks a yes/no question. Empty input picks defaultYes, and
// anything unrecognized re-asks.
func (p *Prompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	for {
		if _, err := fmt.Fprintf(p.writer, "%s%s ", FormatPrompt(question), hint); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Please answer y or n.")); err != nil {
			return false, fmt.Errorf("failed to write retry hint: %w", err)
		}
	}
}

// Input asks for a single line of text, returning defaultValue on
// empty input.
func (p *Prompter) Input(ctx context.Context, question, defaultValue string) (string, error) {
	prompt := question
	if defaultValue != "" {
		prompt = fmt.Sprintf("%s (%s)", question, defaultValue)
	}

	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if line == "" {
		return defaultValue, nil
	}
	return line, nil
}
