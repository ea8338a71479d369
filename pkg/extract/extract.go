// Package extract converts resume documents into plain text.
package extract

import (
	"bytes"
	"context"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/pkg/errors"
)

// Format is a supported document type.
type Format string

const (
	// FormatPDF is a PDF document.
	FormatPDF Format = "pdf"
	// FormatDOCX is an Office Open XML word document.
	FormatDOCX Format = "docx"
	// FormatLaTeX is LaTeX source.
	FormatLaTeX Format = "latex"
	// FormatText is plain text, including markdown.
	FormatText Format = "text"
)

var (
	//nolint:gochecknoglobals // compiled once
	xmlTag = regexp.MustCompile(`<[^>]+>`)
	//nolint:gochecknoglobals // compiled once
	inlineSpace = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	//nolint:gochecknoglobals // compiled once
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// ParseFormat converts a user-supplied format name.
func ParseFormat(name string) (format Format, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pdf":
		format = FormatPDF
	case "docx":
		format = FormatDOCX
	case "latex", "tex":
		format = FormatLaTeX
	case "text", "txt", "md", "markdown":
		format = FormatText
	default:
		err = failure.Newf(failure.UnsupportedFormat, "%q (expected pdf, docx, latex or text)", name)
	}
	return format, err
}

// DetectFormat picks a format from the file extension, falling back to the content.
func DetectFormat(filename string, data []byte) (format Format, err error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		format = FormatPDF
		return format, err
	case ".docx":
		format = FormatDOCX
		return format, err
	case ".tex", ".latex":
		format = FormatLaTeX
		return format, err
	case ".txt", ".md", ".markdown", ".text":
		format = FormatText
		return format, err
	case ".doc", ".rtf", ".odt", ".pages":
		err = failure.Newf(failure.UnsupportedFormat, "%s", filepath.Ext(filename))
		return format, err
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		format = FormatPDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		format = FormatDOCX
	case bytes.Contains(data, []byte(`\documentclass`)) || bytes.Contains(data, []byte(`\begin{document}`)):
		format = FormatLaTeX
	case isText(data):
		format = FormatText
	default:
		err = failure.Newf(failure.UnsupportedFormat, "cannot determine the format of %q", filename)
	}
	return format, err
}

// Extractor converts documents to text. LaTeX goes through pandoc when it is installed.
type Extractor struct {
	pandoc string
}

// New creates an Extractor. An empty pandocBinary means "pandoc" from PATH.
func New(pandocBinary string) (extractor *Extractor) {
	if pandocBinary == "" {
		pandocBinary = "pandoc"
	}
	extractor = &Extractor{pandoc: pandocBinary}
	return extractor
}

// ExtractFile reads path and extracts its text, detecting the format.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (text string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = failure.Wrap(failure.PreconditionNotMet, err, "failed to read resume file")
		return text, err
	}

	var format Format
	format, err = DetectFormat(path, data)
	if err != nil {
		return text, err
	}

	text, err = e.Extract(ctx, data, format)
	return text, err
}

// Extract returns the plain text of data. A document without any text is an extraction failure.
func (e *Extractor) Extract(ctx context.Context, data []byte, format Format) (text string, err error) {
	if len(data) == 0 {
		err = failure.New(failure.ExtractionFailed, "document is empty")
		return text, err
	}

	var raw string
	switch format {
	case FormatPDF:
		raw, err = extractPDF(data)
	case FormatDOCX:
		raw, err = extractDOCX(data)
	case FormatLaTeX:
		raw, err = e.extractLaTeX(ctx, data)
	case FormatText:
		raw = string(data)
	default:
		err = failure.Newf(failure.UnsupportedFormat, "%q", format)
		return text, err
	}
	if err != nil {
		if failure.KindOf(err) == failure.Unknown {
			err = failure.Wrap(failure.ExtractionFailed, err, string(format))
		}
		return text, err
	}

	text = normalize(raw)
	if text == "" {
		err = failure.Newf(failure.ExtractionFailed, "no text found in %s document", format)
		return text, err
	}

	return text, err
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("malformed pdf: %v", r)
		}
	}()

	var reader *pdf.Reader
	reader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		err = errors.Wrap(err, "failed to read pdf")
		return text, err
	}

	var plain io.Reader
	plain, err = reader.GetPlainText()
	if err != nil {
		err = errors.Wrap(err, "failed to extract pdf text")
		return text, err
	}

	var buf bytes.Buffer
	_, err = io.Copy(&buf, plain)
	if err != nil {
		err = errors.Wrap(err, "failed to read pdf text")
		return text, err
	}

	text = buf.String()
	return text, err
}

func extractDOCX(data []byte) (text string, err error) {
	var doc *docx.ReplaceDocx
	doc, err = docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		err = errors.Wrap(err, "failed to parse docx")
		return text, err
	}
	defer doc.Close()

	// Line breaks in the XML source are formatting, not document text.
	content := strings.NewReplacer("\r", "", "\n", "").Replace(doc.Editable().GetContent())
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = strings.ReplaceAll(content, "<w:tab/>", "\t")
	content = strings.ReplaceAll(content, "<w:br/>", "\n")
	content = xmlTag.ReplaceAllString(content, "")

	text = html.UnescapeString(content)
	return text, err
}

func isText(data []byte) (ok bool) {
	sample := data
	if len(sample) > 512 {
		sample = sample[:512]
	}
	ok = !bytes.ContainsRune(sample, 0)
	return ok
}

// normalize collapses runs of inline whitespace, trims lines and limits blank lines to one.
func normalize(text string) (out string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}
	out = blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	out = strings.TrimSpace(out)
	return out
}
