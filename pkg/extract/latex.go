package extract

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	//nolint:gochecknoglobals // compiled once
	latexComment = regexp.MustCompile(`(?m)(^|[^\\])%.*$`)
	//nolint:gochecknoglobals // compiled once
	latexDropped = regexp.MustCompile(`\\(documentclass|usepackage|newcommand|renewcommand|setlength|pagestyle|geometry|hypersetup|definecolor|vspace|hspace|input|include)\b\*?(\[[^\]]*\])?(\{[^{}]*\})*`)
	//nolint:gochecknoglobals // compiled once
	latexHref = regexp.MustCompile(`\\href\{[^{}]*\}`)
	//nolint:gochecknoglobals // compiled once
	latexEnv = regexp.MustCompile(`\\(begin|end)\{[^}]*\}(\{[^}]*\})*`)
	//nolint:gochecknoglobals // compiled once
	latexItem = regexp.MustCompile(`\\item(\[[^\]]*\])?\s*`)
	//nolint:gochecknoglobals // compiled once
	latexBreak = regexp.MustCompile(`\\\\(\[[^\]]*\])?|\\newline|\\par\b`)
	//nolint:gochecknoglobals // compiled once
	latexCommand = regexp.MustCompile(`\\[a-zA-Z]+\*?(\[[^\]]*\])?`)
	//nolint:gochecknoglobals // compiled once
	latexEscaped = strings.NewReplacer(`\&`, "&", `\%`, "%", `\$`, "$", `\#`, "#", `\_`, "_", `\{`, "{", `\}`, "}", "~", " ", "--", "-")
)

// extractLaTeX converts LaTeX source to plain text with pandoc, or with a
// markup-stripping fallback when pandoc is not installed.
func (e *Extractor) extractLaTeX(ctx context.Context, data []byte) (text string, err error) {
	_, lookErr := exec.LookPath(e.pandoc)
	if lookErr != nil {
		text = stripLaTeX(string(data))
		return text, err
	}

	cmd := exec.CommandContext(ctx, e.pandoc, "-f", "latex", "-t", "plain", "--wrap=none")
	cmd.Stdin = bytes.NewReader(data)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	var output []byte
	output, err = cmd.Output()
	if err != nil {
		err = errors.Wrapf(err, "pandoc failed: %s", strings.TrimSpace(stderr.String()))
		return text, err
	}

	text = string(output)
	return text, err
}

// stripLaTeX removes preamble, environments and commands, keeping their text arguments.
func stripLaTeX(source string) (text string) {
	text = source
	if start := strings.Index(text, `\begin{document}`); start >= 0 {
		text = text[start+len(`\begin{document}`):]
	}
	if end := strings.Index(text, `\end{document}`); end >= 0 {
		text = text[:end]
	}

	text = latexComment.ReplaceAllString(text, "$1")
	text = latexDropped.ReplaceAllString(text, "")
	text = latexHref.ReplaceAllString(text, "")
	text = latexEnv.ReplaceAllString(text, "\n")
	text = latexItem.ReplaceAllString(text, "\n")
	text = latexBreak.ReplaceAllString(text, "\n")
	text = latexCommand.ReplaceAllString(text, "")
	text = strings.NewReplacer("{", "", "}", "").Replace(latexEscaped.Replace(protectEscapedBraces(text)))
	text = restoreEscapedBraces(text)
	return text
}

const (
	openBrace  = "\x00lb\x00"
	closeBrace = "\x00rb\x00"
)

func protectEscapedBraces(text string) (out string) {
	out = strings.NewReplacer(`\{`, openBrace, `\}`, closeBrace).Replace(text)
	return out
}

func restoreEscapedBraces(text string) (out string) {
	out = strings.NewReplacer(openBrace, "{", closeBrace, "}").Replace(text)
	return out
}
