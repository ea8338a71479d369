// Package diff computes line-level differences between an original and an updated
// section and renders them with insertion and deletion markers.
package diff

import (
	"fmt"
	"html"
	"strings"

	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/pmezard/go-difflib/difflib"
)

// Op is what happened to a line.
type Op string

const (
	// Equal lines appear in both texts.
	Equal Op = "equal"
	// Insert lines appear only in the updated text.
	Insert Op = "insert"
	// Delete lines appear only in the original text.
	Delete Op = "delete"
)

// Markup selects how a Result is rendered.
type Markup string

const (
	// MarkupHTML wraps changed lines in coloured spans and ends every line with <br>.
	MarkupHTML Markup = "html"
	// MarkupText prefixes lines with "+ ", "- " or two spaces.
	MarkupText Markup = "text"
)

const (
	insertSpan = `<span style="color: green; background-color: #e6ffe6">%s</span><br>`
	deleteSpan = `<span style="color: red; background-color: #ffe6e6">%s</span><br>`
)

// ParseMarkup validates a markup name. Empty means HTML.
func ParseMarkup(name string) (markup Markup, err error) {
	switch Markup(strings.ToLower(strings.TrimSpace(name))) {
	case "", MarkupHTML:
		markup = MarkupHTML
	case MarkupText:
		markup = MarkupText
	default:
		err = failure.Newf(failure.PreconditionNotMet, "unknown diff markup %q (expected html or text)", name)
	}
	return markup, err
}

// Options configures a Highlighter.
type Options struct {
	Markup        Markup `json:"markup"`
	HideUnchanged bool   `json:"hide_unchanged"`
}

// Line is one emitted diff line.
type Line struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// Result is the outcome of one comparison.
type Result struct {
	Lines         []Line `json:"lines"`
	Markup        Markup `json:"markup"`
	HideUnchanged bool   `json:"hide_unchanged"`
}

// Highlighter compares texts line by line.
type Highlighter struct {
	opts Options
}

// NewHighlighter creates a Highlighter. A zero Markup means HTML.
func NewHighlighter(opts Options) (h *Highlighter) {
	if opts.Markup == "" {
		opts.Markup = MarkupHTML
	}
	h = &Highlighter{opts: opts}
	return h
}

// Highlight computes the line delta from original to updated in one left-to-right pass.
// Replaced blocks are emitted as all deletions followed by all insertions.
func (h *Highlighter) Highlight(original, updated string) (result Result) {
	a := splitLines(original)
	b := splitLines(updated)

	result.Markup = h.opts.Markup
	result.HideUnchanged = h.opts.HideUnchanged
	result.Lines = make([]Line, 0, len(a)+len(b))

	matcher := difflib.NewMatcherWithJunk(a, b, false, nil)
	for _, code := range matcher.GetOpCodes() {
		switch code.Tag {
		case 'e':
			result.Lines = appendLines(result.Lines, Equal, a[code.I1:code.I2])
		case 'd':
			result.Lines = appendLines(result.Lines, Delete, a[code.I1:code.I2])
		case 'i':
			result.Lines = appendLines(result.Lines, Insert, b[code.J1:code.J2])
		case 'r':
			result.Lines = appendLines(result.Lines, Delete, a[code.I1:code.I2])
			result.Lines = appendLines(result.Lines, Insert, b[code.J1:code.J2])
		}
	}

	return result
}

// Counts returns how many lines were inserted, deleted and left unchanged.
func (r Result) Counts() (inserted, deleted, unchanged int) {
	for _, line := range r.Lines {
		switch line.Op {
		case Insert:
			inserted++
		case Delete:
			deleted++
		case Equal:
			unchanged++
		}
	}
	return inserted, deleted, unchanged
}

// Changed reports whether any line was inserted or deleted.
func (r Result) Changed() (changed bool) {
	inserted, deleted, _ := r.Counts()
	changed = inserted+deleted > 0
	return changed
}

// Render produces the annotated text.
func (r Result) Render() (out string) {
	switch r.Markup {
	case MarkupText:
		out = r.renderText()
	default:
		out = r.renderHTML()
	}
	return out
}

func (r Result) renderHTML() (out string) {
	var b strings.Builder
	for _, line := range r.Lines {
		text := html.EscapeString(line.Text)
		switch line.Op {
		case Insert:
			fmt.Fprintf(&b, insertSpan, text)
		case Delete:
			fmt.Fprintf(&b, deleteSpan, text)
		case Equal:
			if r.HideUnchanged {
				continue
			}
			b.WriteString(text)
			b.WriteString("<br>")
		}
	}
	out = b.String()
	return out
}

func (r Result) renderText() (out string) {
	rendered := make([]string, 0, len(r.Lines))
	for _, line := range r.Lines {
		switch line.Op {
		case Insert:
			rendered = append(rendered, "+ "+line.Text)
		case Delete:
			rendered = append(rendered, "- "+line.Text)
		case Equal:
			if r.HideUnchanged {
				continue
			}
			rendered = append(rendered, "  "+line.Text)
		}
	}
	out = strings.Join(rendered, "\n")
	return out
}

func appendLines(lines []Line, op Op, texts []string) (out []Line) {
	out = lines
	for _, text := range texts {
		out = append(out, Line{Op: op, Text: text})
	}
	return out
}

// splitLines splits on newlines. An empty text has no lines.
func splitLines(text string) (lines []string) {
	if text == "" {
		return lines
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	lines = strings.Split(text, "\n")
	return lines
}
