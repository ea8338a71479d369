package coach

import (
	"context"

	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/nikogura/resume-coach/pkg/session"
	"github.com/sirupsen/logrus"
)

// TailorOptions selects what a full run does. Empty Sections means every section.
type TailorOptions struct {
	Sections     []resume.Section
	Instructions map[resume.Section]string
	Reformat     bool
}

// TailorReport lists what a run changed, in order.
type TailorReport struct {
	Updated   []resume.Section
	Formatted []resume.Section
}

// Tailor updates each selected section in turn and optionally reformats it.
// It stops at the first failure; results stored before it remain in the session.
func (c *Coach) Tailor(ctx context.Context, sess *session.Session, opts TailorOptions) (report TailorReport, err error) {
	sections := opts.Sections
	if len(sections) == 0 {
		sections = resume.Sections()
	}

	for _, section := range sections {
		instructions := opts.Instructions[section]

		if section == resume.SectionGenProjects {
			_, err = c.GenerateProjects(ctx, sess, instructions)
		} else {
			_, err = c.UpdateSection(ctx, sess, section, instructions)
		}
		if err != nil {
			return report, err
		}
		report.Updated = append(report.Updated, section)

		if !opts.Reformat {
			continue
		}

		_, err = c.Reformat(ctx, sess, section)
		if err != nil {
			return report, err
		}
		report.Formatted = append(report.Formatted, section)
	}

	c.logger.WithFields(logrus.Fields{
		"updated":   len(report.Updated),
		"formatted": len(report.Formatted),
	}).Info("Tailoring complete")

	return report, err
}
