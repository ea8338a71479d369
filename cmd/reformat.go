package cmd

import (
	"fmt"

	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var reformatOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var reformatCmd = &cobra.Command{
	Use:   "reformat <skills|experiences|projects|genprojects>",
	Short: "Pour an updated section back into the style of the original resume",
	Long: `Rewrite the updated content of a section so it follows the layout and tone of
the same section in your original resume. The section must have been updated first.

Example:
  resume-coach reformat experiences`,
	Args: cobra.ExactArgs(1),
	RunE: runReformat,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(reformatCmd)
	reformatCmd.Flags().StringVar(&reformatOutputDir, "output-dir", "", "Output directory (default from config)")
}

func runReformat(cmd *cobra.Command, args []string) (err error) {
	var section resume.Section
	section, err = resume.ParseSection(args[0])
	if err != nil {
		return err
	}

	var ws *workspace
	ws, err = openWorkspace()
	if err != nil {
		return err
	}

	ctx, cancel := ws.context(1)
	defer cancel()

	var text string
	err = withSpinner(ws.logger, fmt.Sprintf("Reformatting %s...", section.Title()), func() (callErr error) {
		text, callErr = ws.coach.Reformat(ctx, ws.session, section)
		return callErr
	})
	if err != nil {
		return err
	}

	err = ws.save()
	if err != nil {
		return err
	}

	printSection(section.Title()+" (formatted)", text)

	var outDir string
	outDir, err = createCompanyOutputDir(ws.baseOutputDir(reformatOutputDir), ws.session.CompanyName)
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
