package cmd

import (
	"fmt"

	"github.com/nikogura/resume-coach/pkg/config"
	"github.com/nikogura/resume-coach/pkg/session"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the analyzed resume, job description and all results",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) (err error) {
	path := getSessionFile()
	if path == "" {
		var cfg config.Config
		cfg, err = config.Load(getConfigFile())
		if err != nil {
			return err
		}
		path, err = cfg.SessionPath()
		if err != nil {
			return err
		}
	}

	err = session.Remove(path)
	if err != nil {
		return err
	}

	fmt.Println("Session cleared.")
	return err
}
