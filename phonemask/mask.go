// Package phonemask keeps the true value of a phone-number input while the
// field renders a partially redacted form of it.
//
// The display reveals PrefixLen leading and SuffixLen trailing characters
// and replaces the rest with MaskChar. Consumers submit Field.Value (or
// Resolve), never the display string.
package phonemask

import "strings"

const (
	// MaskChar replaces hidden characters in the display form.
	MaskChar = '*'

	PrefixLen = 3
	SuffixLen = 3

	// RevealThreshold is the length at or below which a value is shown as is.
	RevealThreshold = PrefixLen + SuffixLen
)

// Mask returns v with everything but the first PrefixLen and last SuffixLen
// characters replaced by MaskChar. Values shorter than RevealThreshold are
// returned unchanged. The result has the same length as v.
func Mask(v string) string {
	r := []rune(v)
	n := len(r)
	if n < RevealThreshold {
		return v
	}

	return string(r[:PrefixLen]) +
		strings.Repeat(string(MaskChar), n-RevealThreshold) +
		string(r[n-SuffixLen:])
}

// Edit folds the raw field content after a user edit into the previous
// authoritative value and returns the new authoritative value along with
// the string the field should render.
//
// Growth appends the new tail of raw with any mask characters removed. A
// shrink takes raw verbatim unless it still carries mask characters, in
// which case the edit is replayed against prev through Mask(prev).
func Edit(prev, raw string) (value, display string) {
	p, r := []rune(prev), []rune(raw)

	switch {
	case len(r) > len(p):
		value = prev + strip(string(r[len(p):]))
	case strings.ContainsRune(raw, MaskChar):
		value = reconcile(p, r)
	default:
		value = raw
	}

	return value, displayOf(value)
}

// Resolve returns value, or fallback when value is empty.
func Resolve(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func displayOf(value string) string {
	if len([]rune(value)) > RevealThreshold {
		return Mask(value)
	}
	return value
}

func strip(s string) string {
	return strings.ReplaceAll(s, string(MaskChar), "")
}

// reconcile locates the span of Mask(prev) that the user replaced to get
// raw and applies the same replacement to prev. Both forms have the same
// length so offsets carry over.
func reconcile(prev, raw []rune) string {
	shown := []rune(Mask(string(prev)))

	limit := min(len(shown), len(raw))
	head := 0
	for head < limit && shown[head] == raw[head] {
		head++
	}
	tail := 0
	for tail < limit-head && shown[len(shown)-1-tail] == raw[len(raw)-1-tail] {
		tail++
	}

	inserted := strip(string(raw[head : len(raw)-tail]))
	return strip(string(prev[:head])) + inserted + strip(string(prev[len(prev)-tail:]))
}
