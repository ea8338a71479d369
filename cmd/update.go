package cmd

import (
	"fmt"

	"github.com/nikogura/resume-coach/pkg/config"
	"github.com/nikogura/resume-coach/pkg/prompts"
	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/nikogura/resume-coach/pkg/session"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var updateInstructions string

//nolint:gochecknoglobals // Cobra boilerplate
var updateJD string

//nolint:gochecknoglobals // Cobra boilerplate
var updateCompany string

//nolint:gochecknoglobals // Cobra boilerplate
var updateOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var updatePrintTemplate bool

//nolint:gochecknoglobals // Cobra boilerplate
var updateCmd = &cobra.Command{
	Use:   "update <skills|experiences|projects|genprojects>",
	Short: "Rewrite one resume section for the job description",
	Long: `Rewrite one section of the analyzed resume so it matches the job description,
then show the changed lines.

The default instructions can be replaced with --instructions. Print the default
with --print-template, edit it, and pass the file back.

Results are written to the output directory under a folder named for the company.

Example:
  resume-coach update skills --jd posting.txt
  resume-coach update experiences --instructions my-experiences.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVar(&updateInstructions, "instructions", "", "File with edited instructions (default template if empty)")
	updateCmd.Flags().StringVar(&updateJD, "jd", "", "Job description file or URL ('-' reads stdin)")
	updateCmd.Flags().StringVar(&updateCompany, "company", "", "Company name")
	updateCmd.Flags().StringVar(&updateOutputDir, "output-dir", "", "Output directory (default from config)")
	updateCmd.Flags().BoolVar(&updatePrintTemplate, "print-template", false, "Print the default instructions for the section and exit")
}

func runUpdate(cmd *cobra.Command, args []string) (err error) {
	var section resume.Section
	section, err = resume.ParseSection(args[0])
	if err != nil {
		return err
	}

	if updatePrintTemplate {
		err = printTemplate(section)
		return err
	}

	err = runSectionUpdate(section, updateInstructions, updateCompany, updateJD, updateOutputDir)
	return err
}

// runSectionUpdate performs one update or project generation, saves the session
// and writes the section's artifacts.
func runSectionUpdate(section resume.Section, instructionsFile, company, jdInput, outputOverride string) (err error) {
	var ws *workspace
	ws, err = openWorkspace()
	if err != nil {
		return err
	}

	calls := 1
	if section == resume.SectionGenProjects {
		calls = 2
	}
	ctx, cancel := ws.context(calls)
	defer cancel()

	var instructions string
	instructions, err = loadInstructions(instructionsFile)
	if err != nil {
		return err
	}

	err = applyJob(ctx, ws, company, jdInput)
	if err != nil {
		return err
	}

	var result session.UpdateResult
	err = withSpinner(ws.logger, fmt.Sprintf("Updating %s...", section.Title()), func() (callErr error) {
		if section == resume.SectionGenProjects {
			result, callErr = ws.coach.GenerateProjects(ctx, ws.session, instructions)
			return callErr
		}
		result, callErr = ws.coach.UpdateSection(ctx, ws.session, section, instructions)
		return callErr
	})
	if err != nil {
		return err
	}

	err = ws.save()
	if err != nil {
		return err
	}

	printResult(result)

	var outDir string
	outDir, err = createCompanyOutputDir(ws.baseOutputDir(outputOverride), ws.session.CompanyName)
	if err != nil {
		return err
	}

	var paths []string
	paths, err = ws.writer(outDir).WriteSection(ws.session, section)
	if err != nil {
		return err
	}
	printPaths(paths)

	return err
}

// printTemplate prints a section's default instructions, honoring prompts_file.
// It needs neither a session nor model credentials.
func printTemplate(section resume.Section) (err error) {
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	var templates prompts.Templates
	templates, err = prompts.LoadTemplates(cfg.PromptsFile)
	if err != nil {
		return err
	}

	fmt.Println(templates.For(section))
	return err
}
