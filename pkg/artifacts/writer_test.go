package artifacts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikogura/resume-coach/pkg/diff"
	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/nikogura/resume-coach/pkg/session"
)

func updatedSession(markup diff.Markup) (sess *session.Session) {
	sess = session.New()
	record := resume.Record{
		Skills:              resume.SkillMap{{Name: "Programming Languages", Skills: []string{"Python"}}},
		ExperiencesOriginal: "ABC Corp - Developer",
	}
	record.FillOriginals()
	sess.SetRecord(record)

	text := "Programming Languages: Python, Go"
	sess.SetResult(session.UpdateResult{
		Section: resume.SectionSkills,
		Text:    text,
		Diff:    diff.NewHighlighter(diff.Options{Markup: markup}).Highlight("Programming Languages: Python", text),
	})
	return sess
}

func TestDiffPage(t *testing.T) {
	result := diff.NewHighlighter(diff.Options{}).Highlight("a", "b")
	page := DiffPage("Skills <changes>", result)

	if !strings.HasPrefix(page, "<!DOCTYPE html>") {
		t.Error("Expected an HTML document")
	}
	if !strings.Contains(page, "<title>Skills &lt;changes&gt;</title>") {
		t.Error("Expected escaped title")
	}
	if !strings.Contains(page, `<span style="color: green; background-color: #e6ffe6">b</span>`) {
		t.Error("Expected rendered insertion")
	}

	text := diff.NewHighlighter(diff.Options{Markup: diff.MarkupText}).Highlight("a", "b")
	if DiffPage("Skills", text) != "- a\n+ b\n" {
		t.Errorf("Expected plain text diff, got %q", DiffPage("Skills", text))
	}
}

func TestWriteSection(t *testing.T) {
	dir := t.TempDir()
	sess := updatedSession(diff.MarkupHTML)
	sess.SetFormatted(resume.SectionSkills, "SKILLS\nPython, Go")

	paths, err := NewWriter(dir, Pandoc{}).WriteSection(sess, resume.SectionSkills)
	if err != nil {
		t.Fatalf("Failed to write section: %v", err)
	}

	want := []string{
		filepath.Join(dir, "skills.diff.html"),
		filepath.Join(dir, "skills.formatted.txt"),
		filepath.Join(dir, "skills.txt"),
	}
	if len(paths) != len(want) {
		t.Fatalf("Expected %d files, got %v", len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Expected %s, got %s", want[i], paths[i])
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "skills.txt"))
	if err != nil {
		t.Fatalf("Failed to read written file: %v", err)
	}
	if string(data) != "Programming Languages: Python, Go\n" {
		t.Errorf("Unexpected section text: %q", string(data))
	}
}

func TestWriteSectionTextDiff(t *testing.T) {
	dir := t.TempDir()
	sess := updatedSession(diff.MarkupText)

	paths, err := NewWriter(dir, Pandoc{}).WriteAll(sess)
	if err != nil {
		t.Fatalf("Failed to write sections: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Expected 2 files, got %v", paths)
	}

	data, err := os.ReadFile(filepath.Join(dir, "skills.diff.txt"))
	if err != nil {
		t.Fatalf("Failed to read diff file: %v", err)
	}
	if !strings.Contains(string(data), "+ Programming Languages: Python, Go") {
		t.Errorf("Unexpected diff content: %q", string(data))
	}
}

func TestWriteSectionNotUpdated(t *testing.T) {
	sess := updatedSession(diff.MarkupHTML)

	_, err := NewWriter(t.TempDir(), Pandoc{}).WriteSection(sess, resume.SectionProjects)
	if !failure.Is(err, failure.PreconditionNotMet) {
		t.Errorf("Expected precondition error, got %v", err)
	}
}

func TestDocument(t *testing.T) {
	sess := updatedSession(diff.MarkupHTML)
	sess.SetFormatted(resume.SectionSkills, "SKILLS\nPython, Go")

	markdown, err := Document(sess)
	if err != nil {
		t.Fatalf("Failed to build document: %v", err)
	}

	if !strings.Contains(markdown, "## Skills\n\n```\nSKILLS\nPython, Go\n```") {
		t.Errorf("Expected formatted skills, got %q", markdown)
	}
	if !strings.Contains(markdown, "## Experiences\n\n```\nABC Corp - Developer\n```") {
		t.Errorf("Expected original experiences, got %q", markdown)
	}
	if strings.Contains(markdown, "Generated Projects") {
		t.Error("Did not expect an empty generated projects section")
	}

	_, err = Document(session.New())
	if !failure.Is(err, failure.PreconditionNotMet) {
		t.Errorf("Expected precondition error for unanalyzed session, got %v", err)
	}
}

func TestWriteDocument(t *testing.T) {
	dir := t.TempDir()
	sess := updatedSession(diff.MarkupHTML)

	paths, err := NewWriter(dir, Pandoc{}).WriteDocument(context.Background(), sess, false)
	if err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(dir, "resume.md") {
		t.Errorf("Unexpected paths: %v", paths)
	}
}
