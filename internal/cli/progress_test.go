package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestProgressSpinner_DisabledRunsFunction(t *testing.T) {
	var out bytes.Buffer
	p := newProgressSpinner(&out, "Memuat", false)

	called := false
	err := p.Run(func() error {
		called = true
		return errors.New("boom")
	})

	assert.True(t, called)
	assert.EqualError(t, err, "boom")
	assert.Empty(t, out.String())
}

func TestSpinnerProgram_QuitsOnComplete(t *testing.T) {
	s := &spinnerProgram{spinner: spinner.New(), message: "Memuat"}
	assert.Contains(t, s.View(), "Memuat")

	_, cmd := s.Update(completeMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, s.View())
}
