package prompts

import (
	"fmt"
	"strings"

	"github.com/nikogura/resume-coach/pkg/resume"
)

// Format instructions describe the JSON shape a reply must have.
// They are sent as the system message of every request.

const formatPreamble = "The output should be formatted as a JSON instance that conforms to the JSON schema below. " +
	"Return only the JSON object, without markdown fences or commentary.\n\n"

const resumeSchema = `{
  "type": "object",
  "properties": {
    "skills": {"type": "object", "description": "Tech skills with categories as keys and lists of skills as values", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
    "skills_original": {"type": "string", "description": "Original text for the skills section"},
    "experiences": {"type": "array", "description": "Work experience entries", "items": {"$ref": "#/definitions/experience"}},
    "experiences_original": {"type": "string", "description": "Original text for the experiences section"},
    "projects": {"type": "array", "description": "Project entries", "items": {"$ref": "#/definitions/project"}},
    "projects_original": {"type": "string", "description": "Original text for the projects section"}
  },
  "required": ["skills", "skills_original", "experiences", "experiences_original", "projects", "projects_original"],
  "definitions": {
    "experience": ` + experienceSchema + `,
    "project": ` + projectSchema + `
  }
}`

const experienceSchema = `{"type": "object", "properties": {"company": {"type": "string", "description": "Name of the company"}, "role": {"type": "string", "description": "Role in the company"}, "details": {"type": "array", "items": {"type": "string"}, "description": "Bullet points about the work"}}, "required": ["company", "role", "details"]}`

const projectSchema = `{"type": "object", "properties": {"name": {"type": "string", "description": "Name of the project"}, "technologies": {"type": "array", "items": {"type": "string"}, "description": "Technologies used"}, "details": {"type": "array", "items": {"type": "string"}, "description": "Bullet points about the project"}}, "required": ["name", "technologies", "details"]}`

const companySchema = `{
  "type": "object",
  "properties": {
    "products": {"type": "array", "items": {"type": "string"}, "description": "Main products and services offered by the company, each as a single formatted string"}
  },
  "required": ["products"]
}`

const formatSchema = `{
  "type": "object",
  "properties": {
    "text": {"type": "string", "description": "New text in the original format"}
  },
  "required": ["text"]
}`

// ResumeFormat returns the format instructions for resume extraction.
func ResumeFormat() (instructions string) {
	instructions = formatPreamble + resumeSchema
	return instructions
}

// SectionFormat returns the format instructions for a section update.
func SectionFormat(section resume.Section) (instructions string) {
	var body string
	switch section {
	case resume.SectionSkills:
		body = `{"type": "object", "properties": {"skills": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}}, "required": ["skills"]}`
	case resume.SectionExperiences:
		body = `{"type": "object", "properties": {"experiences": {"type": "array", "items": ` + experienceSchema + `}}, "required": ["experiences"]}`
	case resume.SectionProjects, resume.SectionGenProjects:
		body = fmt.Sprintf(`{"type": "object", "properties": {%q: {"type": "array", "items": %s}}, "required": [%q]}`, section.Key(), projectSchema, section.Key())
	}
	instructions = formatPreamble + body
	return instructions
}

// CompanyFormat returns the format instructions for company research.
func CompanyFormat() (instructions string) {
	instructions = formatPreamble + companySchema
	return instructions
}

// ReformatFormat returns the format instructions for the reformatter.
func ReformatFormat() (instructions string) {
	instructions = formatPreamble + formatSchema
	return instructions
}

// AnalyzeQuery builds the extraction request.
func AnalyzeQuery(resumeText, template string) (query string) {
	query = "given resume_text:\n" + resumeText + "\n" + template
	return query
}

// UpdateQuery builds a section update request.
func UpdateQuery(section resume.Section, original, jobDescription, instructions string) (query string) {
	query = fmt.Sprintf("given original %s:\n%s\nand job description:\n%s\n%s",
		strings.ToLower(string(section)), original, jobDescription, instructions)
	return query
}

// GenerationInstructions prepends the company product context to the project generation template.
func GenerationInstructions(companyContext, instructions string) (combined string) {
	combined = "Company Product: " + companyContext + "\n\n" + instructions
	return combined
}

// CompanyQuery asks for a company's products, allowing an empty answer.
func CompanyQuery(company string) (query string) {
	query = fmt.Sprintf("Can you provide an overview of the main products and services offered by %s? "+
		"Please include details about their core features, target audience, and how these products serve the needs of professionals and businesses. "+
		"If you don't know %s, return {\"products\": []} instead of guessing.", company, company)
	return query
}

// ReformatQuery asks the model to pour new section content into the original resume's style.
func ReformatQuery(sectionTitle, original, updated string) (query string) {
	query = fmt.Sprintf(`Here is the original resume content:
%s

Here is the new content for the %s section:
%s

Generate a text that corresponds to the original resume format using the new content. Keep every item of the new content. Looks like
{"text": ...}`, original, sectionTitle, updated)
	return query
}
