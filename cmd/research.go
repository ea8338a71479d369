package cmd

import (
	"fmt"

	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var researchCompany string

//nolint:gochecknoglobals // Cobra boilerplate
var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Ask the model about the target company's products",
	Long: `Ask the model for short descriptions of the target company's products.
The answer is used as context when generating projects.

Example:
  resume-coach research --company "Acme Corp"`,
	Args: cobra.NoArgs,
	RunE: runResearch,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(researchCmd)
	researchCmd.Flags().StringVar(&researchCompany, "company", "", "Company name (default from session)")
}

func runResearch(cmd *cobra.Command, args []string) (err error) {
	var ws *workspace
	ws, err = openWorkspace()
	if err != nil {
		return err
	}

	ctx, cancel := ws.context(1)
	defer cancel()

	err = applyJob(ctx, ws, researchCompany, "")
	if err != nil {
		return err
	}

	if ws.session.CompanyName == "" {
		err = failure.New(failure.PreconditionNotMet, "no company name given; use --company")
		return err
	}

	var profile resume.CompanyProfile
	err = withSpinner(ws.logger, fmt.Sprintf("Researching %s...", ws.session.CompanyName), func() (callErr error) {
		profile, callErr = ws.coach.Research(ctx, ws.session)
		return callErr
	})
	if err != nil {
		return err
	}

	err = ws.save()
	if err != nil {
		return err
	}

	if !profile.Known() {
		fmt.Printf("No product information found for %s.\n", ws.session.CompanyName)
		return err
	}
	printSection(ws.session.CompanyName+" Products", profile.Context())

	return err
}
