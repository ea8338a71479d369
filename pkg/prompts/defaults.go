package prompts

const exampleBullet = "Implemented a Vite-based build system using Django and React, reducing build times by 40% and improving overall application performance."

const analyzeTemplate = `Requirements:
1. Format the output as JSON objects for the tech skill sections, work experiences and projects, with sections containing lists of items.
2. Bullet points of work experiences and projects must be nested within lists.
3. For each of the three sections, also return the section exactly as it appears in the resume text under skills_original, experiences_original and projects_original.

Action:
1. Return the tech skills, work experiences and projects found in the resume text. Example:

{
  "skills": {
    "Programming Languages": ["Java", "Python"],
    "Frameworks and Tools": ["Spring", "Kubernetes"],
    "Databases": ["MySQL"],
    "Cloud Services": ["AWS EC2", "AWS S3"]
  },
  "skills_original": "...",
  "experiences": [
    {
      "company": "ABC Corp",
      "role": "Software Developer",
      "details": ["` + exampleBullet + `"]
    }
  ],
  "experiences_original": "...",
  "projects": [
    {
      "name": "Inventory Management System",
      "technologies": ["Python", "Django"],
      "details": ["` + exampleBullet + `"]
    }
  ],
  "projects_original": "..."
}
`

const skillsTemplate = `Requirements:
1. The updated tech skills contain no more than 4 categories, chosen from: Programming Languages, Frameworks and Tools, Databases, Cloud Services (AWS, GCP, Azure, Oracle Cloud).
2. Every category has 4 to 8 skills.
3. All important skills named in the job description appear in the relevant category.
4. Omit a category that has no items.
5. Do not remove important skills or certifications.

Action:
1. Rewrite the tech skills of the resume for the job description. Example:

{
  "skills": {
    "Programming Languages": ["Java", "Python"],
    "Frameworks and Tools": ["Spring", "Kubernetes"],
    "Databases": ["MySQL"],
    "Cloud Services": ["AWS EC2", "AWS S3"]
  }
}
`

const experiencesTemplate = `Requirements:
1. Do not add experiences; use the keywords of the job description.
2. Professional and concise style, 5 bullet points per experience.
3. Every bullet point names at least one tech skill.
4. Keep wording that already has the same or a similar meaning.
5. Each updated bullet point is at least as long as the original one.

Action:
1. Update the details of the original work experiences to match the job description. Example:

{
  "experiences": [
    {
      "company": "ABC Corp",
      "role": "Software Developer",
      "details": ["` + exampleBullet + `"]
    }
  ]
}
`

const projectsTemplate = `Requirements:
1. Professional and concise style, 3 bullet points per project.
2. Every bullet point names at least one tech skill.
3. Bullet points describe the accomplishment, the method or technology used and the outcome, with quantified improvements where possible.
4. Add example numbers and metrics, such as cutting API request time by 50%.
5. Each updated bullet point is at least as long as the original one.

Action:
1. Update the details of the original projects to meet the job description. Example:

{
  "projects": [
    {
      "name": "Inventory Management System",
      "technologies": ["Python", "Django"],
      "details": ["` + exampleBullet + `"]
    }
  ]
}
`

const genProjectsTemplate = `Requirements:
1. Professional and concise style.
2. Every project has 3 bullet points and each bullet point names at least one tech skill.
3. Bullet points describe the accomplishment, the method or technology used and the outcome, with quantified improvements where possible.
4. Projects differ from each other and each one meets specific requirements of the position.
5. Project names are creative and use the tech stack of the job description.
6. Add example numbers and metrics, such as cutting API request time by 50%.

Action:
1. Generate 3 projects based on the job description and similar to the company products. Example:

{
  "genprojects": [
    {
      "name": "Inventory Management System",
      "technologies": ["Python", "Django"],
      "details": ["` + exampleBullet + `"]
    }
  ]
}
`
