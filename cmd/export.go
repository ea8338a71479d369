package cmd

import (
	"context"
	"path/filepath"

	"github.com/nikogura/resume-coach/pkg/artifacts"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var exportOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var exportPDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var exportKeepMarkdown bool

//nolint:gochecknoglobals // Cobra boilerplate
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every updated section and the assembled resume",
	Long: `Write the text and change highlights of every updated section, and a markdown
resume assembled from the best version of each section: reformatted, updated,
or original.

Example:
  resume-coach export
  resume-coach export --pdf --output-dir ~/Documents/Applications`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportOutputDir, "output-dir", "", "Output directory (default from config)")
	exportCmd.Flags().BoolVar(&exportPDF, "pdf", false, "Render the assembled resume to PDF with pandoc")
	exportCmd.Flags().BoolVar(&exportKeepMarkdown, "keep-markdown", true, "Keep the markdown resume after PDF generation")
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	var ws *workspace
	ws, err = openWorkspace()
	if err != nil {
		return err
	}

	ctx, cancel := ws.context(1)
	defer cancel()

	var outDir string
	outDir, err = createCompanyOutputDir(ws.baseOutputDir(exportOutputDir), ws.session.CompanyName)
	if err != nil {
		return err
	}

	var paths []string
	paths, err = writeResults(ctx, ws, outDir, exportPDF, exportKeepMarkdown)
	if err != nil {
		return err
	}
	printPaths(paths)

	return err
}

// writeResults writes all section artifacts and the assembled resume.
func writeResults(ctx context.Context, ws *workspace, outDir string, pdf, keepMarkdown bool) (paths []string, err error) {
	writer := ws.writer(outDir)

	paths, err = writer.WriteAll(ws.session)
	if err != nil {
		return paths, err
	}

	var document []string
	document, err = writer.WriteDocument(ctx, ws.session, pdf)
	if err != nil {
		return paths, err
	}

	if pdf && !keepMarkdown {
		markdownPath := filepath.Join(outDir, "resume.md")
		err = artifacts.Cleanup(markdownPath)
		if err != nil {
			return paths, err
		}
		document = document[1:]
	}

	paths = append(paths, document...)
	return paths, err
}
