package phonemask

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldTyping(t *testing.T) {
	f := &Field{}
	require.Equal(t, "", f.OnFocus())

	var display string
	for _, raw := range []string{"+", "+1", "+15", "+155", "+1555", "+15551", "+155512"} {
		display = f.OnEdit(raw)
	}

	require.Equal(t, "+155512", f.Value())
	require.Equal(t, "+15*512", display)

	// keep typing into the masked display
	display = f.OnEdit(display + "3")
	require.Equal(t, "+1555123", f.Value())
	require.Equal(t, "+15**123", display)
}

func TestFieldFocusBlur(t *testing.T) {
	f := NewField("+15551234567")
	require.False(t, f.Editing())
	require.Equal(t, "+15******567", f.Display())

	require.Equal(t, "+15551234567", f.OnFocus())
	require.True(t, f.Editing())
	require.Equal(t, "+15551234567", f.Display())

	require.Equal(t, "+15******567", f.OnBlur())
	require.False(t, f.Editing())

	for _, v := range []string{"", "+1", "+15551", "+15551234567"} {
		f := NewField(v)
		f.OnBlur()
		require.Equal(t, v, f.OnFocus())
	}
}

func TestFieldOnInputCursor(t *testing.T) {
	f := &Field{}

	display, cursor := f.OnInput("+1555", 5)
	require.Equal(t, "+1555", display)
	require.Equal(t, 5, cursor)

	display, cursor = f.OnInput("+1555*", 6)
	require.Equal(t, "+1555", display)
	require.Equal(t, 5, cursor)

	display, cursor = f.OnInput("+15", -1)
	require.Equal(t, "+15", display)
	require.Equal(t, 0, cursor)
}

func TestFieldResolve(t *testing.T) {
	f := &Field{}
	require.Equal(t, "+442071234567", f.Resolve("+442071234567"))

	f.OnEdit("+15551234567")
	require.Equal(t, "+15551234567", f.Resolve("+442071234567"))

	f.Reset()
	require.Equal(t, "", f.Value())
	require.Equal(t, "+442071234567", f.Resolve("+442071234567"))
}

func TestNewFieldStripsMask(t *testing.T) {
	require.Equal(t, "+15567", NewField("+15***567").Value())
}
