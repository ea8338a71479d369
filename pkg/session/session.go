// Package session holds the per-user working state of one tailoring run:
// the analyzed resume, the target job, company research and section results.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikogura/resume-coach/pkg/diff"
	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/pkg/errors"
)

// UpdateResult is the outcome of one section update. Text and Diff are computed
// from Data in the same call.
type UpdateResult struct {
	Section   resume.Section     `json:"section"`
	Data      resume.SectionData `json:"data"`
	Text      string             `json:"text"`
	Diff      diff.Result        `json:"diff"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Session is the explicit context passed to every action.
type Session struct {
	ID             string                          `json:"id"`
	ResumeFile     string                          `json:"resume_file,omitempty"`
	CompanyName    string                          `json:"company_name,omitempty"`
	JobDescription string                          `json:"job_description,omitempty"`
	Record         *resume.Record                  `json:"record,omitempty"`
	Company        *resume.CompanyProfile          `json:"company,omitempty"`
	Results        map[resume.Section]UpdateResult `json:"results"`
	Formatted      map[resume.Section]string       `json:"formatted"`
	CreatedAt      time.Time                       `json:"created_at"`
	UpdatedAt      time.Time                       `json:"updated_at"`
}

// New creates an empty session.
func New() (s *Session) {
	now := time.Now().UTC()
	s = &Session{
		ID:        uuid.NewString(),
		Results:   make(map[resume.Section]UpdateResult),
		Formatted: make(map[resume.Section]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s
}

// Analyzed reports whether a resume record is present.
func (s *Session) Analyzed() (ok bool) {
	ok = s.Record != nil
	return ok
}

// RequireAnalyzed fails with PreconditionNotMet when no resume has been analyzed.
func (s *Session) RequireAnalyzed() (err error) {
	if !s.Analyzed() {
		err = failure.New(failure.PreconditionNotMet, "no analyzed resume in session (run analyze first)")
	}
	return err
}

// RequireJobDescription fails with PreconditionNotMet when the job description is blank.
func (s *Session) RequireJobDescription() (err error) {
	if strings.TrimSpace(s.JobDescription) == "" {
		err = failure.New(failure.PreconditionNotMet, "no job description in session")
	}
	return err
}

// SetRecord stores a freshly analyzed resume. Results of a previous resume no longer apply.
func (s *Session) SetRecord(record resume.Record) {
	s.Record = &record
	s.Results = make(map[resume.Section]UpdateResult)
	s.Formatted = make(map[resume.Section]string)
	s.touch()
}

// SetJob stores the target company and job description. A different company
// invalidates previous research.
func (s *Session) SetJob(companyName, jobDescription string) {
	if s.Company != nil && !strings.EqualFold(strings.TrimSpace(companyName), strings.TrimSpace(s.CompanyName)) {
		s.Company = nil
	}
	s.CompanyName = strings.TrimSpace(companyName)
	s.JobDescription = jobDescription
	s.touch()
}

// SetCompany stores company research.
func (s *Session) SetCompany(profile resume.CompanyProfile) {
	s.Company = &profile
	s.touch()
}

// SetResult stores a section result, replacing only that section's previous result.
func (s *Session) SetResult(result UpdateResult) {
	if s.Results == nil {
		s.Results = make(map[resume.Section]UpdateResult)
	}
	s.Results[result.Section] = result
	s.touch()
}

// Result returns the stored result of a section.
func (s *Session) Result(section resume.Section) (result UpdateResult, ok bool) {
	result, ok = s.Results[section]
	return result, ok
}

// SetFormatted stores the reformatted text of a section.
func (s *Session) SetFormatted(section resume.Section, text string) {
	if s.Formatted == nil {
		s.Formatted = make(map[resume.Section]string)
	}
	s.Formatted[section] = text
	s.touch()
}

// Reset clears everything except the session ID.
func (s *Session) Reset() {
	id := s.ID
	*s = *New()
	s.ID = id
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Save writes the session as JSON, creating the directory if needed.
func (s *Session) Save(path string) (err error) {
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create session directory: %s", dir)
		return err
	}

	var data []byte
	data, err = json.MarshalIndent(s, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal session")
		return err
	}

	// Write then rename so the file is replaced in one step.
	tmp := path + ".tmp"
	err = os.WriteFile(tmp, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write session file: %s", tmp)
		return err
	}

	err = os.Rename(tmp, path)
	if err != nil {
		err = errors.Wrapf(err, "failed to replace session file: %s", path)
		return err
	}

	return err
}

// Load reads a session file. A missing file yields a new session.
func Load(path string) (s *Session, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s = New()
			err = nil
			return s, err
		}
		err = errors.Wrapf(err, "failed to read session file: %s", path)
		return s, err
	}

	var loaded Session
	err = json.Unmarshal(data, &loaded)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse session file: %s", path)
		return s, err
	}

	if loaded.ID == "" {
		loaded.ID = uuid.NewString()
	}
	if loaded.Results == nil {
		loaded.Results = make(map[resume.Section]UpdateResult)
	}
	if loaded.Formatted == nil {
		loaded.Formatted = make(map[resume.Section]string)
	}

	s = &loaded
	return s, err
}

// Remove deletes a session file. A missing file is not an error.
func Remove(path string) (err error) {
	err = os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		err = errors.Wrapf(err, "failed to remove session file: %s", path)
		return err
	}
	err = nil
	return err
}
