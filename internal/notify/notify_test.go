package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastsShowAndRemove(t *testing.T) {
	t.Parallel()

	toasts := NewToasts()
	first := toasts.Show("saved", KindSuccess, 0)
	second := toasts.Show("oops", "", 0)

	list := toasts.List()
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].ID)
	assert.Equal(t, KindInfo, list[1].Kind)
	assert.NotEqual(t, first, second)

	toasts.Remove(first)
	list = toasts.List()
	require.Len(t, list, 1)
	assert.Equal(t, second, list[0].ID)

	toasts.Remove("unknown")
	assert.Len(t, toasts.List(), 1)
}

func TestToastsExpire(t *testing.T) {
	t.Parallel()

	toasts := NewToasts()
	toasts.Show("short", KindWarning, 10*time.Millisecond)
	toasts.Show("sticky", KindError, 0)

	require.Eventually(t, func() bool { return len(toasts.List()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "sticky", toasts.List()[0].Message)

	toasts.Clear()
	assert.Empty(t, toasts.List())
}

func TestHelpersUseDefaultDuration(t *testing.T) {
	t.Parallel()

	toasts := NewToasts()
	defer toasts.Clear()

	toasts.Success("a")
	toasts.Error("b")
	toasts.Warning("c")
	toasts.Info("d")

	kinds := []Kind{}
	for _, toast := range toasts.List() {
		assert.Equal(t, DefaultDuration, toast.Duration)
		kinds = append(kinds, toast.Kind)
	}
	assert.Equal(t, []Kind{KindSuccess, KindError, KindWarning, KindInfo}, kinds)
}

func TestAutoConfirm(t *testing.T) {
	t.Parallel()

	ok, err := AutoConfirm(true).Confirm(context.Background(), Prompt{Message: "publish?"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = AutoConfirm(false).Confirm(context.Background(), Prompt{})
	require.NoError(t, err)
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = AutoConfirm(true).Confirm(ctx, Prompt{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestConfirmModelKeys(t *testing.T) {
	t.Parallel()

	cases := []struct {
		key      tea.KeyMsg
		accepted bool
		quits    bool
	}{
		{key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, accepted: true, quits: true},
		{key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("O")}, accepted: true, quits: true},
		{key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, quits: true},
		{key: tea.KeyMsg{Type: tea.KeyEnter}, quits: true},
		{key: tea.KeyMsg{Type: tea.KeyCtrlC}, quits: true},
		{key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}},
	}

	for _, tc := range cases {
		t.Run(tc.key.String(), func(t *testing.T) {
			next, cmd := newConfirmModel(Prompt{Message: "Publish this listing?"}).Update(tc.key)
			m := next.(confirmModel)
			assert.Equal(t, tc.accepted, m.accepted)
			if !tc.quits {
				assert.Nil(t, cmd)
				return
			}
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestConfirmModelView(t *testing.T) {
	t.Parallel()

	m := newConfirmModel(Prompt{Title: "Publish", Message: "Publish this listing?"})
	assert.Equal(t, "Publish\nPublish this listing? [y/N]: ", m.View())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Equal(t, "Publish this listing? [y/N]: yes\n", next.View())
}

func TestTerminalConfirmer(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]bool{"y": true, "n": false} {
		var out bytes.Buffer
		c := NewTerminalConfirmer(strings.NewReader(input), &out)
		got, err := c.Confirm(context.Background(), Prompt{Message: "Publish this listing?"})
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTerminalConfirmer(strings.NewReader(""), &bytes.Buffer{}).Confirm(ctx, Prompt{})
	require.ErrorIs(t, err, context.Canceled)
}
