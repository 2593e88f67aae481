package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes word", input: "yes\n", want: true},
		{name: "uppercase yes", input: "Y\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "no word", input: "no\n", want: false},
		{name: "empty picks default no", input: "\n", defaultYes: false, want: false},
		{name: "empty picks default yes", input: "\n", defaultYes: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &output)

			got, err := p.Confirm(context.Background(), "Overwrite rules file?", tt.defaultYes)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, output.String(), "Overwrite rules file?")
		})
	}
}

func TestPrompter_ConfirmReasksOnGarbage(t *testing.T) {
	var output bytes.Buffer
	p := NewPrompter(strings.NewReader("maybe\ny\n"), &output)

	got, err := p.Confirm(context.Background(), "Continue?", false)

	require.NoError(t, err)
	assert.True(t, got)
	assert.Contains(t, output.String(), "Please answer y or n.")
}

func TestPrompter_ConfirmHint(t *testing.T) {
	var output bytes.Buffer
	p := NewPrompter(strings.NewReader("\n"), &output)

	_, err := p.Confirm(context.Background(), "Continue?", true)

	require.NoError(t, err)
	assert.Contains(t, output.String(), "[Y/n]")
}

func TestPrompter_ConfirmCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pr.Close() }()
	defer func() { _ = pw.Close() }()

	p := NewPrompter(pr, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Confirm(ctx, "Continue?", false)
	assert.Equal(t, ErrInputCancelled, err)
}

func TestPrompter_Input(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultValue string
		want         string
	}{
		{name: "uses typed value", input: "tax-archive\n", defaultValue: "default", want: "tax-archive"},
		{name: "empty picks default", input: "\n", defaultValue: "default", want: "default"},
		{name: "trims whitespace", input: "  inbox  \n", want: "inbox"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &output)

			got, err := p.Input(context.Background(), "Project name", tt.defaultValue)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
