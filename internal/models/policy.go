package models

import "strings"

// RedirectSelection decides how many redirect links an episode page contributes
type RedirectSelection int

const (
	// RedirectAll keeps every distinct redirect found on the episode page
	RedirectAll RedirectSelection = iota
	// RedirectFirst keeps only the first redirect in page order
	RedirectFirst
)

// String returns the configuration spelling of the selection
func (r RedirectSelection) String() string {
	switch r {
	case RedirectFirst:
		return "first"
	default:
		return "all"
	}
}

// ParseRedirectSelection converts a configuration value; anything unknown selects all links
func ParseRedirectSelection(value string) RedirectSelection {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "first":
		return RedirectFirst
	default:
		return RedirectAll
	}
}

// Apply narrows the redirects of one page according to the selection
func (r RedirectSelection) Apply(redirects []string) []string {
	if r == RedirectFirst && len(redirects) > 1 {
		return redirects[:1]
	}
	return redirects
}

// Layout decides where season files are written
type Layout int

const (
	// LayoutFlat writes {dir}/{series}_season{N}.txt
	LayoutFlat Layout = iota
	// LayoutNested writes {dir}/{series}/season{N}.txt
	LayoutNested
)

// String returns the configuration spelling of the layout
func (l Layout) String() string {
	switch l {
	case LayoutNested:
		return "nested"
	default:
		return "flat"
	}
}

// ParseLayout converts a configuration value; anything unknown is flat
func ParseLayout(value string) Layout {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "nested":
		return LayoutNested
	default:
		return LayoutFlat
	}
}
