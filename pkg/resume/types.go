package resume

import (
	"strings"

	"github.com/nikogura/resume-coach/pkg/failure"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Section names a rewritable part of the resume.
type Section string

const (
	// SectionSkills is the tech skills section.
	SectionSkills Section = "skills"
	// SectionExperiences is the work experience section.
	SectionExperiences Section = "experiences"
	// SectionProjects is the projects section.
	SectionProjects Section = "projects"
	// SectionGenProjects holds projects generated from the job description and company products.
	SectionGenProjects Section = "genprojects"
)

// Sections lists every section in presentation order.
func Sections() (sections []Section) {
	sections = []Section{SectionSkills, SectionExperiences, SectionProjects, SectionGenProjects}
	return sections
}

// ParseSection converts user input into a Section.
func ParseSection(name string) (section Section, err error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, s := range Sections() {
		if string(s) == normalized {
			section = s
			return section, err
		}
	}

	err = failure.Newf(failure.PreconditionNotMet, "unknown section %q (expected skills, experiences, projects or genprojects)", name)
	return section, err
}

// Key is the JSON key the model uses for this section.
func (s Section) Key() (key string) {
	key = string(s)
	return key
}

// Title is the human-readable section heading.
func (s Section) Title() (title string) {
	name := string(s)
	if s == SectionGenProjects {
		name = "generated projects"
	}
	title = cases.Title(language.English).String(name)
	return title
}

// Experience is one work experience entry.
type Experience struct {
	Company string   `json:"company"`
	Role    string   `json:"role"`
	Details []string `json:"details"`
}

// Project is one project entry.
type Project struct {
	Name         string   `json:"name"`
	Technologies []string `json:"technologies"`
	Details      []string `json:"details"`
}

// Record is the structured content extracted from one resume.
// The *Original fields keep the section text as it appeared in the document.
type Record struct {
	Skills              SkillMap     `json:"skills"`
	SkillsOriginal      string       `json:"skills_original"`
	Experiences         []Experience `json:"experiences"`
	ExperiencesOriginal string       `json:"experiences_original"`
	Projects            []Project    `json:"projects"`
	ProjectsOriginal    string       `json:"projects_original"`
}

// SectionData returns the typed content of a section. Generated projects start empty.
func (r *Record) SectionData(section Section) (data SectionData) {
	data.Section = section
	switch section {
	case SectionSkills:
		data.Skills = r.Skills
	case SectionExperiences:
		data.Experiences = r.Experiences
	case SectionProjects:
		data.Projects = r.Projects
	case SectionGenProjects:
	}
	return data
}

// OriginalText returns the verbatim resume text of a section.
// Generated projects are formatted like the existing projects section.
func (r *Record) OriginalText(section Section) (text string) {
	switch section {
	case SectionSkills:
		text = r.SkillsOriginal
	case SectionExperiences:
		text = r.ExperiencesOriginal
	case SectionProjects, SectionGenProjects:
		text = r.ProjectsOriginal
	}
	return text
}

// FillOriginals sets any missing verbatim section text to the canonical rendering.
func (r *Record) FillOriginals() {
	if strings.TrimSpace(r.SkillsOriginal) == "" {
		r.SkillsOriginal = RenderSkills(r.Skills)
	}
	if strings.TrimSpace(r.ExperiencesOriginal) == "" {
		r.ExperiencesOriginal = RenderExperiences(r.Experiences)
	}
	if strings.TrimSpace(r.ProjectsOriginal) == "" {
		r.ProjectsOriginal = RenderProjects(r.Projects)
	}
}

// SectionData is the typed value of a single section.
type SectionData struct {
	Section     Section      `json:"section"`
	Skills      SkillMap     `json:"skills,omitempty"`
	Experiences []Experience `json:"experiences,omitempty"`
	Projects    []Project    `json:"projects,omitempty"`
}

// Render returns the canonical text of the section.
func (d SectionData) Render() (text string) {
	switch d.Section {
	case SectionSkills:
		text = RenderSkills(d.Skills)
	case SectionExperiences:
		text = RenderExperiences(d.Experiences)
	case SectionProjects, SectionGenProjects:
		text = RenderProjects(d.Projects)
	}
	return text
}

// CompanyProfile is what the model claims to know about a company's products.
// The content is unverified.
type CompanyProfile struct {
	Company  string   `json:"company"`
	Products []string `json:"products"`
}

// Known reports whether the model returned any products.
func (p CompanyProfile) Known() (known bool) {
	known = len(p.Products) > 0
	return known
}

// Context joins the products into prompt context, one paragraph each.
func (p CompanyProfile) Context() (text string) {
	text = strings.Join(p.Products, "\n\n")
	return text
}
