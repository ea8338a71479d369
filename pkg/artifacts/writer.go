// Package artifacts writes tailoring results to disk: updated section text,
// reformatted text, change highlights and an assembled markdown resume.
package artifacts

import (
	"context"
	"fmt"
	"html"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nikogura/resume-coach/pkg/diff"
	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/nikogura/resume-coach/pkg/session"
)

const diffPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body style="font-family: monospace; white-space: pre-wrap">
<h2>%s</h2>
%s
</body>
</html>
`

// Writer writes the artifacts of one session into a directory.
type Writer struct {
	dir    string
	pandoc Pandoc
}

// NewWriter creates a Writer for dir.
func NewWriter(dir string, pandoc Pandoc) (w *Writer) {
	w = &Writer{dir: dir, pandoc: pandoc}
	return w
}

// DiffPage wraps a rendered diff. HTML markup becomes a standalone page; text markup is returned as is.
func DiffPage(title string, result diff.Result) (page string) {
	if result.Markup == diff.MarkupText {
		page = result.Render() + "\n"
		return page
	}
	escaped := html.EscapeString(title)
	page = fmt.Sprintf(diffPage, escaped, escaped, result.Render())
	return page
}

// WriteSection writes the updated text, the change highlight and, when present,
// the reformatted text of one section. It returns the written paths.
func (w *Writer) WriteSection(sess *session.Session, section resume.Section) (paths []string, err error) {
	result, ok := sess.Result(section)
	if !ok {
		err = failure.Newf(failure.PreconditionNotMet, "section %s has not been updated yet", section)
		return paths, err
	}

	files := map[string]string{
		string(section) + ".txt": result.Text + "\n",
	}

	diffName := string(section) + ".diff.html"
	if result.Diff.Markup == diff.MarkupText {
		diffName = string(section) + ".diff.txt"
	}
	files[diffName] = DiffPage(section.Title()+" changes", result.Diff)

	if formatted, found := sess.Formatted[section]; found {
		files[string(section)+".formatted.txt"] = formatted + "\n"
	}

	for _, name := range slices.Sorted(maps.Keys(files)) {
		path := filepath.Join(w.dir, name)
		err = WriteFile(files[name], path)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, err
}

// WriteAll writes every updated section. Sections without a result are skipped.
func (w *Writer) WriteAll(sess *session.Session) (paths []string, err error) {
	for _, section := range resume.Sections() {
		if _, ok := sess.Result(section); !ok {
			continue
		}

		var written []string
		written, err = w.WriteSection(sess, section)
		if err != nil {
			return paths, err
		}
		paths = append(paths, written...)
	}

	return paths, err
}

// Document assembles a markdown resume from the session, preferring reformatted
// text, then updated text, then the original section text.
func Document(sess *session.Session) (markdown string, err error) {
	err = sess.RequireAnalyzed()
	if err != nil {
		return markdown, err
	}

	var b strings.Builder
	for _, section := range resume.Sections() {
		text := sectionText(sess, section)
		if strings.TrimSpace(text) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n\n```\n%s\n```\n", section.Title(), strings.TrimSpace(text))
	}

	markdown = b.String()
	return markdown, err
}

// WriteDocument writes the assembled markdown resume and, when pdf is true,
// renders it with pandoc. It returns the written paths.
func (w *Writer) WriteDocument(ctx context.Context, sess *session.Session, pdf bool) (paths []string, err error) {
	var markdown string
	markdown, err = Document(sess)
	if err != nil {
		return paths, err
	}

	mdPath := filepath.Join(w.dir, "resume.md")
	err = WriteFile(markdown, mdPath)
	if err != nil {
		return paths, err
	}
	paths = append(paths, mdPath)

	if !pdf {
		return paths, err
	}

	pdfPath := filepath.Join(w.dir, "resume.pdf")
	err = w.pandoc.RenderPDF(ctx, mdPath, pdfPath)
	if err != nil {
		return paths, err
	}
	paths = append(paths, pdfPath)

	return paths, err
}

func sectionText(sess *session.Session, section resume.Section) (text string) {
	if formatted, ok := sess.Formatted[section]; ok {
		text = formatted
		return text
	}
	if result, ok := sess.Result(section); ok {
		text = result.Text
		return text
	}
	if section != resume.SectionGenProjects {
		text = sess.Record.OriginalText(section)
	}
	return text
}
