// Package coach runs the model-backed stages of resume tailoring: structured
// extraction, company research, section rewriting, project generation and
// reformatting. Every stage checks its preconditions before calling the model
// and only touches the session after a reply has been validated.
package coach

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/nikogura/resume-coach/pkg/diff"
	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/nikogura/resume-coach/pkg/llm"
	"github.com/nikogura/resume-coach/pkg/prompts"
	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/nikogura/resume-coach/pkg/schema"
	"github.com/nikogura/resume-coach/pkg/session"
	"github.com/sirupsen/logrus"
)

// Coach wires a completer to prompt templates and a diff highlighter.
type Coach struct {
	completer   llm.Completer
	templates   prompts.Templates
	highlighter *diff.Highlighter
	logger      *logrus.Logger
	now         func() time.Time
}

// New creates a Coach. A nil highlighter uses HTML markup; a nil logger discards output.
func New(completer llm.Completer, templates prompts.Templates, highlighter *diff.Highlighter, logger *logrus.Logger) (c *Coach) {
	if highlighter == nil {
		highlighter = diff.NewHighlighter(diff.Options{})
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	c = &Coach{
		completer:   completer,
		templates:   templates,
		highlighter: highlighter,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
	return c
}

// AnalyzeResume extracts skills, experiences and projects from resume text.
func (c *Coach) AnalyzeResume(ctx context.Context, resumeText string) (record resume.Record, err error) {
	err = c.completer.Ready()
	if err != nil {
		return record, err
	}

	if strings.TrimSpace(resumeText) == "" {
		err = failure.New(failure.PreconditionNotMet, "resume text is empty")
		return record, err
	}

	log := c.logger.WithField("stage", "analyze")
	log.WithField("bytes", len(resumeText)).Debug("Extracting resume structure")

	var reply string
	reply, err = c.completer.Complete(ctx, llm.Request{
		Instructions: prompts.ResumeFormat(),
		Query:        prompts.AnalyzeQuery(resumeText, c.templates.Analyze),
	})
	if err != nil {
		return record, err
	}

	record, err = schema.DecodeResume(reply)
	if err != nil {
		log.WithError(err).Warn("Resume extraction reply rejected")
		return record, err
	}

	log.WithFields(logrus.Fields{
		"skill_categories": len(record.Skills),
		"experiences":      len(record.Experiences),
		"projects":         len(record.Projects),
	}).Info("Resume analyzed")

	return record, err
}

// Analyze extracts the resume into the session. When the session names a company
// that has not been researched yet, research runs too; its failure is logged only.
func (c *Coach) Analyze(ctx context.Context, sess *session.Session, resumeText string) (err error) {
	var record resume.Record
	record, err = c.AnalyzeResume(ctx, resumeText)
	if err != nil {
		return err
	}

	sess.SetRecord(record)

	if sess.Company == nil && strings.TrimSpace(sess.CompanyName) != "" {
		c.researchInto(ctx, sess)
	}

	return err
}

// ResearchCompany asks the model what it knows about a company's products.
// A blank name or an unknown company yields an empty profile, not an error.
// The products are unverified and only ever used as prompt context.
func (c *Coach) ResearchCompany(ctx context.Context, companyName string) (profile resume.CompanyProfile, err error) {
	err = c.completer.Ready()
	if err != nil {
		return profile, err
	}

	companyName = strings.TrimSpace(companyName)
	profile.Company = companyName
	if companyName == "" {
		return profile, err
	}

	log := c.logger.WithFields(logrus.Fields{"stage": "research", "company": companyName})

	var reply string
	reply, err = c.completer.Complete(ctx, llm.Request{
		Instructions: prompts.CompanyFormat(),
		Query:        prompts.CompanyQuery(companyName),
	})
	if err != nil {
		return profile, err
	}

	profile, err = schema.DecodeCompanyProfile(reply, companyName)
	if err != nil {
		log.WithError(err).Warn("Company research reply rejected")
		return profile, err
	}

	if !profile.Known() {
		log.Info("Model does not know the company")
		return profile, err
	}

	log.WithField("products", len(profile.Products)).Info("Company researched")
	return profile, err
}

// Research stores company research for the session's company.
func (c *Coach) Research(ctx context.Context, sess *session.Session) (profile resume.CompanyProfile, err error) {
	profile, err = c.ResearchCompany(ctx, sess.CompanyName)
	if err != nil {
		return profile, err
	}

	sess.SetCompany(profile)
	return profile, err
}

// researchInto fills sess.Company, logging instead of failing.
func (c *Coach) researchInto(ctx context.Context, sess *session.Session) {
	_, err := c.Research(ctx, sess)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"stage":   "research",
			"company": sess.CompanyName,
			"kind":    failure.KindOf(err),
		}).WithError(err).Warn("Company research failed, continuing without product context")
	}
}

// UpdateSection rewrites skills, experiences or projects against the session's job
// description. Empty instructions select the default template for the section.
// On success the result replaces only that section's previous result.
func (c *Coach) UpdateSection(ctx context.Context, sess *session.Session, section resume.Section, instructions string) (result session.UpdateResult, err error) {
	err = c.preconditions(sess)
	if err != nil {
		return result, err
	}

	switch section {
	case resume.SectionSkills, resume.SectionExperiences, resume.SectionProjects:
	case resume.SectionGenProjects:
		err = failure.New(failure.PreconditionNotMet, "generated projects are created with GenerateProjects")
		return result, err
	default:
		err = failure.Newf(failure.PreconditionNotMet, "unknown section %q", section)
		return result, err
	}

	if strings.TrimSpace(instructions) == "" {
		instructions = c.templates.For(section)
	}

	original := sess.Record.SectionData(section).Render()

	result, err = c.update(ctx, sess, section, original, instructions)
	return result, err
}

// GenerateProjects invents projects for the job description, using the company's
// products as context. Company research runs first when the session has none.
func (c *Coach) GenerateProjects(ctx context.Context, sess *session.Session, instructions string) (result session.UpdateResult, err error) {
	err = c.preconditions(sess)
	if err != nil {
		return result, err
	}

	if sess.Company == nil {
		c.researchInto(ctx, sess)
	}

	var companyContext string
	if sess.Company != nil {
		companyContext = sess.Company.Context()
	}

	if strings.TrimSpace(instructions) == "" {
		instructions = c.templates.For(resume.SectionGenProjects)
	}
	instructions = prompts.GenerationInstructions(companyContext, instructions)

	result, err = c.update(ctx, sess, resume.SectionGenProjects, "", instructions)
	return result, err
}

// update sends one section request, validates the reply and stores the result.
func (c *Coach) update(ctx context.Context, sess *session.Session, section resume.Section, original, instructions string) (result session.UpdateResult, err error) {
	log := c.logger.WithFields(logrus.Fields{"stage": "update", "section": section})
	log.WithField("original_bytes", len(original)).Debug("Requesting section update")

	var reply string
	reply, err = c.completer.Complete(ctx, llm.Request{
		Instructions: prompts.SectionFormat(section),
		Query:        prompts.UpdateQuery(section, original, sess.JobDescription, instructions),
	})
	if err != nil {
		return result, err
	}

	var data resume.SectionData
	data, err = schema.DecodeSection(reply, section)
	if err != nil {
		log.WithError(err).Warn("Section update reply rejected")
		return result, err
	}

	text := data.Render()
	result = session.UpdateResult{
		Section:   section,
		Data:      data,
		Text:      text,
		Diff:      c.highlighter.Highlight(original, text),
		UpdatedAt: c.now(),
	}
	sess.SetResult(result)

	inserted, deleted, unchanged := result.Diff.Counts()
	log.WithFields(logrus.Fields{
		"inserted":  inserted,
		"deleted":   deleted,
		"unchanged": unchanged,
	}).Info("Section updated")

	return result, err
}

// Reformat rewrites a section's updated content in the style of the original
// resume text. A rejected reply leaves any previously formatted text in place.
func (c *Coach) Reformat(ctx context.Context, sess *session.Session, section resume.Section) (text string, err error) {
	err = c.completer.Ready()
	if err != nil {
		return text, err
	}

	err = sess.RequireAnalyzed()
	if err != nil {
		return text, err
	}

	result, ok := sess.Result(section)
	if !ok {
		err = failure.Newf(failure.PreconditionNotMet, "section %s has not been updated yet", section)
		return text, err
	}

	log := c.logger.WithFields(logrus.Fields{"stage": "reformat", "section": section})

	var reply string
	reply, err = c.completer.Complete(ctx, llm.Request{
		Instructions: prompts.ReformatFormat(),
		Query:        prompts.ReformatQuery(section.Title(), sess.Record.OriginalText(section), result.Text),
	})
	if err != nil {
		return text, err
	}

	text, err = schema.DecodeFormattedText(reply)
	if err != nil {
		log.WithError(err).Warn("Reformat reply rejected")
		return text, err
	}

	sess.SetFormatted(section, text)
	log.WithField("bytes", len(text)).Info("Section reformatted")

	return text, err
}

// preconditions checks what every section stage needs, in the order a user would fix them.
func (c *Coach) preconditions(sess *session.Session) (err error) {
	err = c.completer.Ready()
	if err != nil {
		return err
	}

	err = sess.RequireAnalyzed()
	if err != nil {
		return err
	}

	err = sess.RequireJobDescription()
	return err
}
