package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/nikogura/resume-coach/pkg/extract"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeCompany string

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeJD string

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>",
	Short: "Extract skills, experiences and projects from a resume",
	Long: `Extract the text of a PDF, Word (.docx), LaTeX or plain text resume and ask the
model to split it into skills, experiences and projects.

Analyzing starts a fresh round: results of earlier updates are discarded.
When --company is given, the company is researched as well.

Example:
  resume-coach analyze resume.pdf
  resume-coach analyze resume.tex --company "Acme Corp" --jd posting.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeCompany, "company", "", "Company name to research")
	analyzeCmd.Flags().StringVar(&analyzeJD, "jd", "", "Job description file or URL ('-' reads stdin)")
}

func runAnalyze(cmd *cobra.Command, args []string) (err error) {
	var ws *workspace
	ws, err = openWorkspace()
	if err != nil {
		return err
	}

	ctx, cancel := ws.context(2)
	defer cancel()

	resumeFile := args[0]

	var text string
	text, err = extract.New(ws.cfg.Pandoc.Binary).ExtractFile(ctx, resumeFile)
	if err != nil {
		return err
	}
	if getVerbose() {
		fmt.Printf("Extracted %d characters from %s\n", len(text), resumeFile)
	}

	err = applyJob(ctx, ws, analyzeCompany, analyzeJD)
	if err != nil {
		return err
	}

	err = withSpinner(ws.logger, "Analyzing resume...", func() error {
		return ws.coach.Analyze(ctx, ws.session, text)
	})
	if err != nil {
		return err
	}

	ws.session.ResumeFile, _ = filepath.Abs(resumeFile)

	err = ws.save()
	if err != nil {
		return err
	}

	printRecord(ws.session.Record)
	if ws.session.Company != nil && ws.session.Company.Known() {
		printSection("Company Products", ws.session.Company.Context())
	}

	return err
}
