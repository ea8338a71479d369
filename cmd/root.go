package cmd

import (
	"fmt"
	"os"

	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var sessionFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "resume-coach",
	Short: "Tailor a resume to a job description",
	Long: `resume-coach extracts the skills, experiences and projects from your resume,
rewrites them against a job description, generates projects inspired by the
hiring company's products, and shows every change as a line diff.

Rewritten sections can be poured back into the style of your original resume.
State is kept in a session file between commands.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", failure.Message(err))
		if getVerbose() {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		}
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.resume-coach/config.json)")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session", "", "session file (default from config, or $HOME/.resume-coach/session.json)")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

// getSessionFile returns the session file flag value.
func getSessionFile() (result string) {
	result = sessionFile
	return result
}
