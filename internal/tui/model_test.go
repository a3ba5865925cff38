package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

type stubAsker struct {
	answer domain.Answer
	err    error
	asked  []string
}

func (s *stubAsker) Ask(_ context.Context, q string) (domain.Answer, error) {
	s.asked = append(s.asked, q)
	return s.answer, s.err
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func typeQuery(m Model, q string) Model {
	m.input.SetValue(q)
	return m
}

func TestRenderMarkup_StripsTags(t *testing.T) {
	out := RenderMarkup("<h2>Overview</h2>\n\n<strong>Pumps</strong> need priming\n• plain line")

	assert.NotContains(t, out, "<strong>")
	assert.NotContains(t, out, "<h2>")
	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "Pumps")
	assert.Contains(t, out, " need priming\n• plain line")
}

func TestUpdate_EnterAsksAndShowsAnswer(t *testing.T) {
	asker := &stubAsker{answer: domain.Answer{
		Answer:  "Prime it first.",
		Sources: []domain.Source{{Document: "manual.pdf", Page: 4, ChunkID: 1}},
	}}
	m := sized(t, New(context.Background(), asker, "docqa", "A pump manual."))
	m = typeQuery(m, "  how do I start it? ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.pending)
	assert.Equal(t, "Thinking...", m.status)
	assert.Empty(t, m.input.Value())

	next, _ = m.Update(cmd())
	m = next.(Model)

	assert.Equal(t, []string{"how do I start it?"}, asker.asked)
	assert.False(t, m.pending)
	assert.Equal(t, `Answer for "how do I start it?"`, m.status)
	view := m.renderAnswer()
	assert.Contains(t, view, "Prime it first.")
	assert.Contains(t, view, "1. manual.pdf, page 4, chunk 1")
}

func TestUpdate_AskErrorShownInStatus(t *testing.T) {
	asker := &stubAsker{err: errors.New("query embedding failed: timeout")}
	m := sized(t, New(context.Background(), asker, "docqa", ""))
	m = typeQuery(m, "anything")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next, _ = next.(Model).Update(cmd())
	m = next.(Model)

	assert.Equal(t, "Error: query embedding failed: timeout", m.status)
	assert.Equal(t, "No answer yet.", m.renderAnswer())
}

func TestUpdate_BlankEnterDoesNothing(t *testing.T) {
	asker := &stubAsker{}
	m := sized(t, New(context.Background(), asker, "docqa", ""))
	m = typeQuery(m, "   ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, next.(Model).pending)
	assert.Empty(t, asker.asked)
}

func TestUpdate_CtrlCQuits(t *testing.T) {
	m := New(context.Background(), &stubAsker{}, "docqa", "")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView(t *testing.T) {
	m := New(context.Background(), &stubAsker{}, "docqa", "")
	assert.Equal(t, "Loading...", m.View())

	m = sized(t, m)
	view := m.View()
	assert.Contains(t, view, "docqa")
	assert.Contains(t, view, "No answer yet.")
	assert.LessOrEqual(t, lipgloss.Height(view), 24)
}
