package artifacts

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/pkg/errors"
)

// DefaultPandoc is the binary looked up on PATH when none is configured.
const DefaultPandoc = "pandoc"

// Pandoc renders markdown documents to PDF.
type Pandoc struct {
	Binary string
	// Template is an optional LaTeX template. Empty uses pandoc's default.
	Template string
	// Engine is an optional --pdf-engine value.
	Engine string
}

func (p Pandoc) binary() (bin string) {
	bin = p.Binary
	if bin == "" {
		bin = DefaultPandoc
	}
	return bin
}

// Check verifies the binary runs.
func (p Pandoc) Check(ctx context.Context) (err error) {
	cmd := exec.CommandContext(ctx, p.binary(), "--version")
	err = cmd.Run()
	if err != nil {
		err = failure.Newf(failure.PreconditionNotMet, "%s not found in PATH (install pandoc to generate PDFs)", p.binary())
		return err
	}
	return err
}

func (p Pandoc) args(markdownPath, outputPath string) (args []string) {
	args = []string{
		"-f", "markdown",
		"-o", outputPath,
		"--standalone",
	}
	if p.Template != "" {
		args = append(args, "--template", p.Template)
	}
	if p.Engine != "" {
		args = append(args, "--pdf-engine", p.Engine)
	}
	args = append(args, markdownPath)
	return args
}

// RenderPDF converts markdownPath to a PDF at outputPath.
func (p Pandoc) RenderPDF(ctx context.Context, markdownPath, outputPath string) (err error) {
	err = p.Check(ctx)
	if err != nil {
		return err
	}

	inputs := []string{markdownPath}
	if p.Template != "" {
		inputs = append(inputs, p.Template)
	}
	err = requireFiles(inputs...)
	if err != nil {
		return err
	}

	err = ensureDir(outputPath)
	if err != nil {
		return err
	}

	var output []byte
	output, err = exec.CommandContext(ctx, p.binary(), p.args(markdownPath, outputPath)...).CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "pandoc failed: %s", strings.TrimSpace(string(output)))
		return err
	}

	return err
}

func requireFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = failure.Newf(failure.PreconditionNotMet, "file not found: %s", path)
			return err
		}
	}
	return err
}

func ensureDir(path string) (err error) {
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", dir)
		return err
	}
	return err
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(content, path string) (err error) {
	err = ensureDir(path)
	if err != nil {
		return err
	}

	err = os.WriteFile(path, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write file: %s", path)
		return err
	}

	return err
}

// Cleanup removes intermediate files. Files already gone are ignored.
func Cleanup(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			err = errors.Wrapf(err, "failed to remove file: %s", path)
			return err
		}
		err = nil
	}
	return err
}
