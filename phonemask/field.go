package phonemask

// Field is the state behind one masked phone input. The zero value is an
// empty field that is not being edited.
//
// A Field is owned by a single widget and is not safe for concurrent use.
type Field struct {
	value   string
	editing bool
}

// NewField returns a Field holding an initial authoritative value.
func NewField(value string) *Field {
	return &Field{value: strip(value)}
}

// OnEdit applies the raw field content after an input event and returns
// the string to render.
func (f *Field) OnEdit(raw string) string {
	var display string
	f.value, display = Edit(f.value, raw)
	return display
}

// OnInput is OnEdit for callers that also track the caret. The returned
// cursor is the pre-edit offset, clamped to the rendered length.
func (f *Field) OnInput(raw string, cursor int) (string, int) {
	display := f.OnEdit(raw)
	return display, clampCursor(cursor, len([]rune(display)))
}

// OnFocus switches the field to editing and returns the unmasked value.
func (f *Field) OnFocus() string {
	f.editing = true
	return f.value
}

// OnBlur leaves editing and returns the masked value.
func (f *Field) OnBlur() string {
	f.editing = false
	return Mask(f.value)
}

// Editing reports whether the field has focus.
func (f *Field) Editing() bool {
	return f.editing
}

// Value returns the authoritative value.
func (f *Field) Value() string {
	return f.value
}

// Display renders the field for its current mode.
func (f *Field) Display() string {
	if f.editing {
		return f.value
	}
	return Mask(f.value)
}

// Resolve returns the value to submit: the authoritative value, or
// fallback when the field was never edited.
func (f *Field) Resolve(fallback string) string {
	return Resolve(f.value, fallback)
}

// Reset clears the field.
func (f *Field) Reset() {
	f.value = ""
	f.editing = false
}

func clampCursor(cursor, n int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > n {
		return n
	}
	return cursor
}
