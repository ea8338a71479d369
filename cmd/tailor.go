package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nikogura/resume-coach/pkg/coach"
	"github.com/nikogura/resume-coach/pkg/extract"
	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var tailorCompany string

//nolint:gochecknoglobals // Cobra boilerplate
var tailorSections []string

//nolint:gochecknoglobals // Cobra boilerplate
var tailorReformat bool

//nolint:gochecknoglobals // Cobra boilerplate
var tailorOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var tailorPDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var tailorKeepMarkdown bool

//nolint:gochecknoglobals // Cobra boilerplate
var tailorCmd = &cobra.Command{
	Use:   "tailor <resume-file> <jd-file-or-url>",
	Short: "Run the whole pipeline: analyze, update every section, write results",
	Long: `Analyze a resume, research the company, rewrite each section against the job
description, optionally reformat each section, and write the results to a folder
named for the company.

The run stops at the first failing step. Sections finished before it are kept
in the session and can be continued with update and reformat.

Example:
  resume-coach tailor resume.pdf https://example.com/jobs/123 --company "Acme Corp"
  resume-coach tailor resume.docx posting.txt --sections skills,experiences --reformat --pdf`,
	Args: cobra.ExactArgs(2),
	RunE: runTailor,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(tailorCmd)
	tailorCmd.Flags().StringVar(&tailorCompany, "company", "", "Company name to research")
	tailorCmd.Flags().StringSliceVar(&tailorSections, "sections", nil, "Sections to update (default: skills,experiences,projects,genprojects)")
	tailorCmd.Flags().BoolVar(&tailorReformat, "reformat", false, "Reformat each updated section in the style of the original")
	tailorCmd.Flags().StringVar(&tailorOutputDir, "output-dir", "", "Output directory (default from config)")
	tailorCmd.Flags().BoolVar(&tailorPDF, "pdf", false, "Render the assembled resume to PDF with pandoc")
	tailorCmd.Flags().BoolVar(&tailorKeepMarkdown, "keep-markdown", true, "Keep the markdown resume after PDF generation")
}

func runTailor(cmd *cobra.Command, args []string) (err error) {
	var sections []resume.Section
	sections, err = parseSections(tailorSections)
	if err != nil {
		return err
	}

	var ws *workspace
	ws, err = openWorkspace()
	if err != nil {
		return err
	}

	calls := 2 + len(sections)
	if len(sections) == 0 {
		calls = 2 + len(resume.Sections())
	}
	if tailorReformat {
		calls *= 2
	}
	ctx, cancel := ws.context(calls)
	defer cancel()

	resumeFile, jdInput := args[0], args[1]

	var text string
	text, err = extract.New(ws.cfg.Pandoc.Binary).ExtractFile(ctx, resumeFile)
	if err != nil {
		return err
	}

	err = applyJob(ctx, ws, tailorCompany, jdInput)
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

	var report coach.TailorReport
	err = withSpinner(ws.logger, "Tailoring sections...", func() (callErr error) {
		report, callErr = ws.coach.Tailor(ctx, ws.session, coach.TailorOptions{
			Sections: sections,
			Reformat: tailorReformat,
		})
		return callErr
	})

	// Finished sections are kept even when a later step failed.
	saveErr := ws.save()
	if err != nil {
		return err
	}
	if saveErr != nil {
		return saveErr
	}

	for _, section := range report.Updated {
		result, _ := ws.session.Result(section)
		printResult(result)
	}

	var outDir string
	outDir, err = createCompanyOutputDir(ws.baseOutputDir(tailorOutputDir), ws.session.CompanyName)
	if err != nil {
		return err
	}

	var paths []string
	paths, err = writeResults(ctx, ws, outDir, tailorPDF, tailorKeepMarkdown)
	if err != nil {
		return err
	}
	printPaths(paths)

	fmt.Printf("\nUpdated: %s\n", joinSections(report.Updated))
	if len(report.Formatted) > 0 {
		fmt.Printf("Reformatted: %s\n", joinSections(report.Formatted))
	}

	return err
}

func parseSections(names []string) (sections []resume.Section, err error) {
	for _, name := range names {
		var section resume.Section
		section, err = resume.ParseSection(name)
		if err != nil {
			return sections, err
		}
		sections = append(sections, section)
	}
	return sections, err
}

func joinSections(sections []resume.Section) (joined string) {
	titles := make([]string, 0, len(sections))
	for _, section := range sections {
		titles = append(titles, section.Title())
	}
	joined = strings.Join(titles, ", ")
	return joined
}
