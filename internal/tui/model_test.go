package tui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/vigenere/internal/cracker"
)

func TestViewShowsProgress(t *testing.T) {
	m := NewModel("Cracking cipher.txt", nil)
	assert.Contains(t, m.View(), "Analyzing key positions")

	_, cmd := m.Update(ProgressMsg{Done: 16, Total: 64})
	assert.Nil(t, cmd)
	out := m.View()
	assert.Contains(t, out, "Cracking cipher.txt")
	assert.Contains(t, out, "16/64 candidate keys scored")
	assert.Contains(t, out, "25%")
}

func TestDoneQuits(t *testing.T) {
	m := NewModel("title", nil)
	_, cmd := m.Update(DoneMsg{Result: cracker.Result{Key: "cat"}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
	assert.False(t, m.Canceled())
}

func TestEscCancels(t *testing.T) {
	called := false
	m := NewModel("title", func() { called = true })
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, called)
	assert.True(t, m.Canceled())
}

func TestWindowSizeClampsBar(t *testing.T) {
	m := NewModel("title", nil)
	m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.Equal(t, 26, m.bar.Width)
	m.Update(tea.WindowSizeMsg{Width: 300, Height: 10})
	assert.Equal(t, maxBarWidth, m.bar.Width)
}

func TestThrottledForwardsPercentSteps(t *testing.T) {
	var got []int
	fn := throttled(func(done, _ int) { got = append(got, done) })
	for i := 1; i <= 1000; i++ {
		fn(i, 1000)
	}
	assert.Len(t, got, 101)
	assert.Equal(t, 1, got[0])
	assert.Equal(t, 1000, got[len(got)-1])
}

func TestThrottledSmallTotals(t *testing.T) {
	var got []int
	fn := throttled(func(done, _ int) { got = append(got, done) })
	for i := 1; i <= 3; i++ {
		fn(i, 3)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestRunReturnsContextErrorWhenInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	crack := func(ctx context.Context, _ cracker.ProgressFunc) (cracker.Result, error) {
		<-ctx.Done()
		return cracker.Result{}, ctx.Err()
	}
	_, err := run(ctx, "title", crack, tea.WithInput(nil), tea.WithOutput(io.Discard))
	require.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, err.Error(), "progress TUI")
}

func TestRunReturnsCrackResult(t *testing.T) {
	crack := func(_ context.Context, progress cracker.ProgressFunc) (cracker.Result, error) {
		progress(1, 2)
		progress(2, 2)
		return cracker.Result{Key: "cat"}, nil
	}
	res, err := run(context.Background(), "title", crack, tea.WithInput(nil), tea.WithOutput(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, "cat", res.Key)
}
