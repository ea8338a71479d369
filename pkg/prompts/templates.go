package prompts

import (
	"os"
	"strings"

	"github.com/nikogura/resume-coach/pkg/resume"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Templates holds the editable instruction text for each model-backed stage.
type Templates struct {
	Analyze     string `yaml:"analyze"`
	Skills      string `yaml:"skills"`
	Experiences string `yaml:"experiences"`
	Projects    string `yaml:"projects"`
	GenProjects string `yaml:"genprojects"`
}

// Defaults returns the built-in templates.
func Defaults() (templates Templates) {
	templates = Templates{
		Analyze:     analyzeTemplate,
		Skills:      skillsTemplate,
		Experiences: experiencesTemplate,
		Projects:    projectsTemplate,
		GenProjects: genProjectsTemplate,
	}
	return templates
}

// For returns the update template of a section.
func (t Templates) For(section resume.Section) (template string) {
	switch section {
	case resume.SectionSkills:
		template = t.Skills
	case resume.SectionExperiences:
		template = t.Experiences
	case resume.SectionProjects:
		template = t.Projects
	case resume.SectionGenProjects:
		template = t.GenProjects
	}
	return template
}

// LoadTemplates reads YAML overrides from path on top of the defaults.
// An empty path returns the defaults. Blank entries keep the default.
func LoadTemplates(path string) (templates Templates, err error) {
	templates = Defaults()
	if path == "" {
		return templates, err
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read prompts file: %s", path)
		return templates, err
	}

	var overrides Templates
	err = yaml.Unmarshal(data, &overrides)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse prompts file: %s", path)
		return templates, err
	}

	templates = templates.merge(overrides)
	return templates, err
}

// LoadInstructions reads a single edited template from a text file.
func LoadInstructions(path string) (instructions string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read instructions file: %s", path)
		return instructions, err
	}

	instructions = strings.TrimSpace(string(data))
	if instructions == "" {
		err = errors.Errorf("instructions file is empty: %s", path)
		return instructions, err
	}

	return instructions, err
}

func (t Templates) merge(overrides Templates) (merged Templates) {
	merged = t
	pick := func(current, override string) (value string) {
		value = current
		if strings.TrimSpace(override) != "" {
			value = override
		}
		return value
	}

	merged.Analyze = pick(merged.Analyze, overrides.Analyze)
	merged.Skills = pick(merged.Skills, overrides.Skills)
	merged.Experiences = pick(merged.Experiences, overrides.Experiences)
	merged.Projects = pick(merged.Projects, overrides.Projects)
	merged.GenProjects = pick(merged.GenProjects, overrides.GenProjects)
	return merged
}
