package resume

import (
	"strings"
)

const detailIndent = "    "

// RenderSkills renders one "<category>: <a, b, c>" line per category.
func RenderSkills(skills SkillMap) (text string) {
	var b strings.Builder
	for _, category := range skills {
		b.WriteString(category.Name)
		b.WriteString(": ")
		b.WriteString(strings.Join(category.Skills, ", "))
		b.WriteString("\n")
	}

	text = strings.TrimSpace(b.String())
	return text
}

// RenderExperiences renders each experience as a Company/Role/Details block separated by a blank line.
func RenderExperiences(experiences []Experience) (text string) {
	var b strings.Builder
	for _, experience := range experiences {
		b.WriteString("Company: ")
		b.WriteString(experience.Company)
		b.WriteString("\nRole: ")
		b.WriteString(experience.Role)
		b.WriteString("\n")
		writeDetails(&b, experience.Details)
		b.WriteString("\n\n")
	}

	text = strings.TrimSpace(b.String())
	return text
}

// RenderProjects renders each project as a Project Name/Technologies/Details block separated by a blank line.
func RenderProjects(projects []Project) (text string) {
	var b strings.Builder
	for _, project := range projects {
		b.WriteString("Project Name: ")
		b.WriteString(project.Name)
		b.WriteString("\nTechnologies: ")
		b.WriteString(strings.Join(project.Technologies, ", "))
		b.WriteString("\n")
		writeDetails(&b, project.Details)
		b.WriteString("\n\n")
	}

	text = strings.TrimSpace(b.String())
	return text
}

func writeDetails(b *strings.Builder, details []string) {
	b.WriteString("Details:\n")
	b.WriteString(detailIndent)
	b.WriteString(strings.Join(details, "\n"+detailIndent))
}
