package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/nikogura/resume-coach/pkg/jd"
	"github.com/pkg/errors"
)

// fetchJobDescription loads a job description from a file or URL. When a URL
// cannot be fetched the user may paste the text instead.
func fetchJobDescription(ctx context.Context, input string) (jobDescription string, err error) {
	if getVerbose() {
		fmt.Printf("Loading job description from: %s\n", input)
	}

	if input == "-" {
		jobDescription, err = readStdin()
		return jobDescription, err
	}

	jobDescription, err = jd.NewFetcher(0).Fetch(ctx, input)
	if err != nil {
		if !jd.IsURL(input) {
			return jobDescription, err
		}

		fmt.Printf("\nWarning: Failed to fetch job description from URL: %v\n", err)
		fmt.Println("This often happens with JavaScript-rendered pages (Lever, Workable, etc.)")
		fmt.Println("\nPlease paste the job description text below.")
		fmt.Println("When finished, press Ctrl+D (Unix/Mac) or Ctrl+Z then Enter (Windows):")
		fmt.Println()

		jobDescription, err = readStdin()
		if err != nil {
			return jobDescription, err
		}
		fmt.Printf("\nJob description received (%d characters)\n", len(jobDescription))
		return jobDescription, err
	}

	if getVerbose() {
		fmt.Printf("Job description loaded (%d characters)\n", len(jobDescription))
	}

	return jobDescription, err
}

func readStdin() (text string, err error) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if scanner.Err() != nil {
		err = errors.Wrap(scanner.Err(), "failed to read job description from stdin")
		return text, err
	}

	text = strings.TrimSpace(strings.Join(lines, "\n"))
	if text == "" {
		err = failure.New(failure.PreconditionNotMet, "no job description provided")
		return text, err
	}

	return text, err
}

// applyJob updates the session's company and job description from flags.
// Empty flags keep what the session already holds.
func applyJob(ctx context.Context, ws *workspace, company, jdInput string) (err error) {
	if company == "" && jdInput == "" {
		return err
	}

	companyName := ws.session.CompanyName
	if company != "" {
		companyName = company
	}

	jobDescription := ws.session.JobDescription
	if jdInput != "" {
		jobDescription, err = fetchJobDescription(ctx, jdInput)
		if err != nil {
			return err
		}
	}

	ws.session.SetJob(companyName, jobDescription)
	return err
}
