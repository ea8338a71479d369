package cmd

import (
	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var generateInstructions string

//nolint:gochecknoglobals // Cobra boilerplate
var generateJD string

//nolint:gochecknoglobals // Cobra boilerplate
var generateCompany string

//nolint:gochecknoglobals // Cobra boilerplate
var generateOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var generatePrintTemplate bool

//nolint:gochecknoglobals // Cobra boilerplate
var generateCmd = &cobra.Command{
	Use:   "generate-projects",
	Short: "Generate projects inspired by the company's products",
	Long: `Generate new projects that fit the job description, using what the model
knows about the company's products as inspiration.

The company is researched first when the session has no research yet. If
research fails, projects are generated without product context.

Example:
  resume-coach generate-projects --company "Acme Corp" --jd posting.txt
  resume-coach generate-projects --instructions my-projects.txt`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generateInstructions, "instructions", "", "File with edited instructions (default template if empty)")
	generateCmd.Flags().StringVar(&generateJD, "jd", "", "Job description file or URL ('-' reads stdin)")
	generateCmd.Flags().StringVar(&generateCompany, "company", "", "Company name")
	generateCmd.Flags().StringVar(&generateOutputDir, "output-dir", "", "Output directory (default from config)")
	generateCmd.Flags().BoolVar(&generatePrintTemplate, "print-template", false, "Print the default instructions and exit")
}

func runGenerate(cmd *cobra.Command, args []string) (err error) {
	if generatePrintTemplate {
		err = printTemplate(resume.SectionGenProjects)
		return err
	}

	err = runSectionUpdate(resume.SectionGenProjects, generateInstructions, generateCompany, generateJD, generateOutputDir)
	return err
}
