package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikogura/resume-coach/pkg/artifacts"
	"github.com/nikogura/resume-coach/pkg/coach"
	"github.com/nikogura/resume-coach/pkg/config"
	"github.com/nikogura/resume-coach/pkg/diff"
	"github.com/nikogura/resume-coach/pkg/llm"
	"github.com/nikogura/resume-coach/pkg/prompts"
	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/nikogura/resume-coach/pkg/session"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// workspace is what every model-backed command needs.
type workspace struct {
	cfg         config.Config
	logger      *logrus.Logger
	coach       *coach.Coach
	session     *session.Session
	sessionPath string
}

func newLogger() (logger *logrus.Logger) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.WarnLevel)
	if getVerbose() {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// openWorkspace loads config, prompt templates and the session, and builds the coach.
func openWorkspace() (ws *workspace, err error) {
	ws = &workspace{logger: newLogger()}

	ws.cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return ws, err
	}

	var settings llm.Settings
	settings, err = ws.cfg.LLMSettings()
	if err != nil {
		return ws, err
	}

	var client *llm.Client
	client, err = llm.NewClient(settings)
	if err != nil {
		return ws, err
	}

	var templates prompts.Templates
	templates, err = prompts.LoadTemplates(ws.cfg.PromptsFile)
	if err != nil {
		return ws, err
	}

	var opts diff.Options
	opts, err = ws.cfg.DiffOptions()
	if err != nil {
		return ws, err
	}

	ws.sessionPath = getSessionFile()
	if ws.sessionPath == "" {
		ws.sessionPath, err = ws.cfg.SessionPath()
		if err != nil {
			return ws, err
		}
	}

	ws.session, err = session.Load(ws.sessionPath)
	if err != nil {
		return ws, err
	}

	ws.coach = coach.New(client, templates, diff.NewHighlighter(opts), ws.logger)

	ws.logger.WithFields(logrus.Fields{
		"provider": client.Provider(),
		"model":    client.Model(),
		"session":  ws.session.ID,
	}).Debug("Workspace ready")

	return ws, err
}

// context bounds one command run by the configured per-call timeout times the number of calls.
func (ws *workspace) context(calls int) (ctx context.Context, cancel context.CancelFunc) {
	if calls < 1 {
		calls = 1
	}
	ctx, cancel = context.WithTimeout(context.Background(), ws.cfg.GetTimeout()*time.Duration(calls))
	return ctx, cancel
}

// save writes the session. Commands call it only after their action succeeded.
func (ws *workspace) save() (err error) {
	err = ws.session.Save(ws.sessionPath)
	if err != nil {
		return err
	}
	if getVerbose() {
		fmt.Printf("Session saved: %s\n", ws.sessionPath)
	}
	return err
}

// baseOutputDir returns the output directory from flag or config.
func (ws *workspace) baseOutputDir(override string) (baseOutDir string) {
	baseOutDir = override
	if baseOutDir == "" {
		baseOutDir = ws.cfg.Defaults.OutputDir
	}
	return baseOutDir
}

func (ws *workspace) writer(outDir string) (w *artifacts.Writer) {
	w = artifacts.NewWriter(outDir, artifacts.Pandoc{
		Binary:   ws.cfg.Pandoc.Binary,
		Template: ws.cfg.Pandoc.Template,
		Engine:   ws.cfg.Pandoc.PDFEngine,
	})
	return w
}

func createCompanyOutputDir(baseOutDir, company string) (outDir string, err error) {
	outDir = filepath.Join(baseOutDir, sanitizeFilename(company))
	err = os.MkdirAll(outDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outDir)
		return outDir, err
	}
	return outDir, err
}

// loadInstructions reads an edited template file, or returns "" for the default.
func loadInstructions(path string) (instructions string, err error) {
	if path == "" {
		return instructions, err
	}
	instructions, err = prompts.LoadInstructions(path)
	return instructions, err
}

func printSection(title, text string) {
	fmt.Printf("\n=== %s ===\n", title)
	if strings.TrimSpace(text) == "" {
		fmt.Println("(empty)")
		return
	}
	fmt.Println(text)
}

func printResult(result session.UpdateResult) {
	inserted, deleted, unchanged := result.Diff.Counts()
	printSection(result.Section.Title(), result.Text)
	fmt.Printf("\nChanges: +%d -%d (%d unchanged)\n", inserted, deleted, unchanged)
	if getVerbose() && result.Diff.Markup == diff.MarkupText {
		fmt.Println(result.Diff.Render())
	}
}

func printPaths(paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Println("\nFiles written:")
	for _, path := range paths {
		fmt.Printf("  %s\n", path)
	}
}

func printRecord(record *resume.Record) {
	for _, section := range []resume.Section{resume.SectionSkills, resume.SectionExperiences, resume.SectionProjects} {
		printSection(section.Title(), record.SectionData(section).Render())
	}
}

func sanitizeFilename(name string) (sanitized string) {
	// Remove common company suffixes
	suffixes := []string{
		", LLC", ", Inc.", ", Inc",
		" LLC", " Inc.", " Inc",
		" Corporation", " Corp.", " Corp",
		" Limited", " Ltd.", " Ltd",
		" Co.", " Co",
	}

	sanitized = strings.TrimSpace(name)
	for _, suffix := range suffixes {
		if strings.HasSuffix(strings.ToLower(sanitized), strings.ToLower(suffix)) {
			sanitized = sanitized[:len(sanitized)-len(suffix)]
		}
	}

	// Convert to lowercase
	sanitized = strings.ToLower(sanitized)

	// Replace spaces and special chars with hyphens
	sanitized = strings.Map(func(r rune) (result rune) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = r
			return result
		}
		result = '-'
		return result
	}, sanitized)

	// Collapse repeated hyphens
	for strings.Contains(sanitized, "--") {
		sanitized = strings.ReplaceAll(sanitized, "--", "-")
	}
	sanitized = strings.Trim(sanitized, "-")

	if sanitized == "" {
		sanitized = "resume"
	}
	return sanitized
}
