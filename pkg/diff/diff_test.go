package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightIdentical(t *testing.T) {
	text := "Programming Languages: Python, Go\nDatabases: MySQL"
	result := NewHighlighter(Options{}).Highlight(text, text)

	inserted, deleted, unchanged := result.Counts()
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, 2, unchanged)
	assert.False(t, result.Changed())

	rendered := result.Render()
	assert.NotContains(t, rendered, "<span")
	assert.Equal(t, "Programming Languages: Python, Go<br>Databases: MySQL<br>", rendered)
}

func TestHighlightEmptyOriginal(t *testing.T) {
	updated := "Project Name: Ledger\nTechnologies: Go\nDetails:\n    Built it"
	result := NewHighlighter(Options{Markup: MarkupText}).Highlight("", updated)

	inserted, deleted, unchanged := result.Counts()
	assert.Equal(t, 4, inserted)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, 0, unchanged)

	for _, line := range result.Lines {
		assert.Equal(t, Insert, line.Op)
	}
}

func TestHighlightBothEmpty(t *testing.T) {
	result := NewHighlighter(Options{}).Highlight("", "")
	assert.Empty(t, result.Lines)
	assert.Equal(t, "", result.Render())
}

func TestHighlightSkillsScenario(t *testing.T) {
	result := NewHighlighter(Options{Markup: MarkupText}).Highlight(
		"Programming Languages: Python",
		"Programming Languages: Python, Go",
	)

	require.Len(t, result.Lines, 2)
	assert.Equal(t, Line{Op: Delete, Text: "Programming Languages: Python"}, result.Lines[0])
	assert.Equal(t, Line{Op: Insert, Text: "Programming Languages: Python, Go"}, result.Lines[1])
	assert.Equal(t, "- Programming Languages: Python\n+ Programming Languages: Python, Go", result.Render())
}

func TestHighlightMixed(t *testing.T) {
	original := "Company: ABC\nRole: Dev\nDetails:\n    old bullet\n    kept bullet"
	updated := "Company: ABC\nRole: Dev\nDetails:\n    new bullet\n    kept bullet\n    extra bullet"

	result := NewHighlighter(Options{Markup: MarkupText}).Highlight(original, updated)

	want := []Line{
		{Op: Equal, Text: "Company: ABC"},
		{Op: Equal, Text: "Role: Dev"},
		{Op: Equal, Text: "Details:"},
		{Op: Delete, Text: "    old bullet"},
		{Op: Insert, Text: "    new bullet"},
		{Op: Equal, Text: "    kept bullet"},
		{Op: Insert, Text: "    extra bullet"},
	}
	assert.Equal(t, want, result.Lines)
}

func TestRenderHTMLMarkers(t *testing.T) {
	result := NewHighlighter(Options{Markup: MarkupHTML}).Highlight("a\nb", "a\nc")
	rendered := result.Render()

	assert.True(t, strings.HasPrefix(rendered, "a<br>"))
	assert.Contains(t, rendered, `<span style="color: red; background-color: #ffe6e6">b</span><br>`)
	assert.Contains(t, rendered, `<span style="color: green; background-color: #e6ffe6">c</span><br>`)
}

func TestRenderHTMLEscapes(t *testing.T) {
	result := NewHighlighter(Options{}).Highlight("", "C++ <templates> & more")
	assert.Contains(t, result.Render(), "C++ &lt;templates&gt; &amp; more")
}

func TestHideUnchanged(t *testing.T) {
	original := "same\nold"
	updated := "same\nnew"

	shown := NewHighlighter(Options{Markup: MarkupText}).Highlight(original, updated)
	assert.Equal(t, "  same\n- old\n+ new", shown.Render())

	hidden := NewHighlighter(Options{Markup: MarkupText, HideUnchanged: true}).Highlight(original, updated)
	assert.Equal(t, "- old\n+ new", hidden.Render())

	hiddenHTML := NewHighlighter(Options{Markup: MarkupHTML, HideUnchanged: true}).Highlight(original, updated)
	assert.NotContains(t, hiddenHTML.Render(), "same")

	// Hiding only affects rendering.
	_, _, unchanged := hidden.Counts()
	assert.Equal(t, 1, unchanged)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb\n"))
	assert.Equal(t, []string{""}, splitLines("\n"))
}

func TestParseMarkup(t *testing.T) {
	tests := []struct {
		in      string
		want    Markup
		wantErr bool
	}{
		{in: "", want: MarkupHTML},
		{in: "HTML", want: MarkupHTML},
		{in: "text", want: MarkupText},
		{in: "ansi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMarkup(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
