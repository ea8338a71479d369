// Package schema validates model replies and converts them into typed resume values.
// Every lookup is checked for presence and type; nothing is read from an unvalidated path.
package schema

import (
	"strings"

	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	// GenProjectsKey is the reply key for generated projects.
	GenProjectsKey = "genprojects"
	// ProductsKey is the reply key for company products.
	ProductsKey = "products"
	// TextKey is the reply key for reformatted text.
	TextKey = "text"
)

// Clean removes markdown code fences around a JSON reply.
func Clean(raw string) (cleaned string) {
	cleaned = strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```JSON")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}

// DecodeResume validates an extraction reply. skills, experiences and projects are required.
func DecodeResume(raw string) (record resume.Record, err error) {
	var doc gjson.Result
	doc, err = document(raw)
	if err != nil {
		return record, err
	}

	var parsed resume.Record

	var value gjson.Result
	value, err = requireKey(doc, resume.SectionSkills.Key())
	if err != nil {
		return record, err
	}
	parsed.Skills, err = resume.ParseSkillMap(value)
	if err != nil {
		err = invalid(err, "skills")
		return record, err
	}

	value, err = requireKey(doc, resume.SectionExperiences.Key())
	if err != nil {
		return record, err
	}
	parsed.Experiences, err = decodeExperiences(value)
	if err != nil {
		return record, err
	}

	value, err = requireKey(doc, resume.SectionProjects.Key())
	if err != nil {
		return record, err
	}
	parsed.Projects, err = decodeProjects(value)
	if err != nil {
		return record, err
	}

	for key, target := range map[string]*string{
		"skills_original":      &parsed.SkillsOriginal,
		"experiences_original": &parsed.ExperiencesOriginal,
		"projects_original":    &parsed.ProjectsOriginal,
	} {
		*target, err = optionalString(doc, key)
		if err != nil {
			return record, err
		}
	}

	parsed.FillOriginals()
	record = parsed
	return record, err
}

// DecodeSection validates an update reply for one section.
// Generated projects are read under the "genprojects" key.
func DecodeSection(raw string, section resume.Section) (data resume.SectionData, err error) {
	var doc gjson.Result
	doc, err = document(raw)
	if err != nil {
		return data, err
	}

	var value gjson.Result
	value, err = requireKey(doc, section.Key())
	if err != nil {
		return data, err
	}

	parsed := resume.SectionData{Section: section}
	switch section {
	case resume.SectionSkills:
		parsed.Skills, err = resume.ParseSkillMap(value)
		if err != nil {
			err = invalid(err, "skills")
		}
	case resume.SectionExperiences:
		parsed.Experiences, err = decodeExperiences(value)
	case resume.SectionProjects, resume.SectionGenProjects:
		parsed.Projects, err = decodeProjects(value)
	default:
		err = failure.Newf(failure.PreconditionNotMet, "section %q cannot be decoded", section)
	}
	if err != nil {
		return data, err
	}

	data = parsed
	return data, err
}

// DecodeCompanyProfile validates a company research reply.
// An empty reply, null, {} or a missing/empty products list all mean the model
// does not know the company and yield an empty profile without error.
func DecodeCompanyProfile(raw, company string) (profile resume.CompanyProfile, err error) {
	profile.Company = company

	cleaned := Clean(raw)
	if cleaned == "" || cleaned == "null" {
		return profile, err
	}

	var doc gjson.Result
	doc, err = document(cleaned)
	if err != nil {
		return profile, err
	}

	value := doc.Get(ProductsKey)
	if !value.Exists() {
		return profile, err
	}

	var products []string
	products, err = resume.StringList(value)
	if err != nil {
		err = invalid(err, ProductsKey)
		return profile, err
	}

	for _, product := range products {
		if strings.TrimSpace(product) != "" {
			profile.Products = append(profile.Products, product)
		}
	}

	return profile, err
}

// DecodeFormattedText validates a reformat reply. A reply escaped twice, with
// literal "\n" sequences and no real line breaks, is unescaped once.
func DecodeFormattedText(raw string) (text string, err error) {
	var doc gjson.Result
	doc, err = document(raw)
	if err != nil {
		return text, err
	}

	var value gjson.Result
	value, err = requireKey(doc, TextKey)
	if err != nil {
		return text, err
	}

	if value.Type != gjson.String {
		err = failure.Newf(failure.ModelOutputInvalid, "%q must be a string, got %s", TextKey, value.Type)
		return text, err
	}

	formatted := unescapeNewlines(value.String())
	if strings.TrimSpace(formatted) == "" {
		err = failure.Newf(failure.ModelOutputInvalid, "%q is empty", TextKey)
		return text, err
	}

	text = formatted
	return text, err
}

func document(raw string) (doc gjson.Result, err error) {
	cleaned := Clean(raw)
	if cleaned == "" {
		err = failure.New(failure.ModelOutputInvalid, "model reply is empty")
		return doc, err
	}

	if !gjson.Valid(cleaned) {
		err = failure.Newf(failure.ModelOutputInvalid, "model reply is not valid JSON: %s", truncate(cleaned, 200))
		return doc, err
	}

	doc = gjson.Parse(cleaned)
	if !doc.IsObject() {
		err = failure.Newf(failure.ModelOutputInvalid, "model reply must be a JSON object, got %s", doc.Type)
		return doc, err
	}

	return doc, err
}

func requireKey(doc gjson.Result, key string) (value gjson.Result, err error) {
	value = doc.Get(key)
	if !value.Exists() {
		err = failure.Newf(failure.ModelOutputInvalid, "model reply is missing required key %q", key)
		return value, err
	}
	if value.Type == gjson.Null {
		err = failure.Newf(failure.ModelOutputInvalid, "model reply has null for required key %q", key)
		return value, err
	}
	return value, err
}

func optionalString(obj gjson.Result, field string) (text string, err error) {
	value := obj.Get(field)
	if !value.Exists() || value.Type == gjson.Null {
		return text, err
	}
	if value.Type != gjson.String {
		err = failure.Newf(failure.ModelOutputInvalid, "%q must be a string, got %s", field, value.Type)
		return text, err
	}
	text = value.String()
	return text, err
}

func optionalList(obj gjson.Result, field string) (list []string, err error) {
	value := obj.Get(field)
	if !value.Exists() {
		list = []string{}
		return list, err
	}
	list, err = resume.StringList(value)
	if err != nil {
		err = invalid(err, field)
	}
	return list, err
}

func decodeExperiences(value gjson.Result) (experiences []resume.Experience, err error) {
	err = requireArray(value, "experiences")
	if err != nil {
		return experiences, err
	}

	experiences = make([]resume.Experience, 0)
	for i, item := range value.Array() {
		if !item.IsObject() {
			err = failure.Newf(failure.ModelOutputInvalid, "experiences[%d] must be an object, got %s", i, item.Type)
			experiences = nil
			return experiences, err
		}

		var experience resume.Experience
		experience.Company, err = optionalString(item, "company")
		if err == nil {
			experience.Role, err = optionalString(item, "role")
		}
		if err == nil {
			experience.Details, err = optionalList(item, "details")
		}
		if err != nil {
			err = errors.Wrapf(err, "experiences[%d]", i)
			experiences = nil
			return experiences, err
		}

		experiences = append(experiences, experience)
	}

	return experiences, err
}

func decodeProjects(value gjson.Result) (projects []resume.Project, err error) {
	err = requireArray(value, "projects")
	if err != nil {
		return projects, err
	}

	projects = make([]resume.Project, 0)
	for i, item := range value.Array() {
		if !item.IsObject() {
			err = failure.Newf(failure.ModelOutputInvalid, "projects[%d] must be an object, got %s", i, item.Type)
			projects = nil
			return projects, err
		}

		var project resume.Project
		project.Name, err = optionalString(item, "name")
		if err == nil {
			project.Technologies, err = optionalList(item, "technologies")
		}
		if err == nil {
			project.Details, err = optionalList(item, "details")
		}
		if err != nil {
			err = errors.Wrapf(err, "projects[%d]", i)
			projects = nil
			return projects, err
		}

		projects = append(projects, project)
	}

	return projects, err
}

func requireArray(value gjson.Result, name string) (err error) {
	if !value.IsArray() {
		err = failure.Newf(failure.ModelOutputInvalid, "%s must be an array, got %s", name, value.Type)
	}
	return err
}

func invalid(err error, field string) (wrapped error) {
	wrapped = failure.Wrap(failure.ModelOutputInvalid, err, "invalid "+field)
	return wrapped
}

// unescapeNewlines turns literal \n sequences into newlines when text has no
// real line breaks. A doubled backslash is kept as is and never starts an escape.
func unescapeNewlines(text string) (unescaped string) {
	if strings.Contains(text, "\n") || !strings.Contains(text, `\n`) {
		unescaped = text
		return unescaped
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' || i+1 == len(text) {
			b.WriteByte(text[i])
			continue
		}
		switch text[i+1] {
		case 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte(text[i])
			b.WriteByte(text[i+1])
		}
		i++
	}

	unescaped = b.String()
	return unescaped
}

func truncate(text string, limit int) (out string) {
	out = text
	if len(out) > limit {
		out = out[:limit] + "..."
	}
	return out
}
