package cmd

import (
	"fmt"

	"github.com/nikogura/resume-coach/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Create a default configuration file at $HOME/.resume-coach/config.json,
or at the path given by --config.

Edit the file to set your provider and API key. The key may instead come from
OPENAI_API_KEY, ANTHROPIC_API_KEY or RESUME_COACH_API_KEY.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	err = config.InitConfig(getConfigFile())
	if err != nil {
		return err
	}

	fmt.Println("Configuration created. Set your API key before running analyze.")
	return err
}
