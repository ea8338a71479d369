// Package jd loads job descriptions from local files or web pages.
package jd

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/pkg/errors"
)

const (
	// DefaultTimeout bounds a page fetch when the caller's context has no deadline.
	DefaultTimeout = 30 * time.Second
	// MaxBodyBytes caps how much of a page is read.
	MaxBodyBytes = 4 << 20
	userAgent    = "resume-coach/1.0"
)

// Fetcher retrieves job descriptions.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher whose HTTP requests time out after timeout.
// A zero timeout uses DefaultTimeout.
func NewFetcher(timeout time.Duration) (f *Fetcher) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	f = &Fetcher{client: &http.Client{Timeout: timeout}}
	return f
}

// IsURL reports whether input names an http(s) page rather than a file.
func IsURL(input string) (ok bool) {
	parsed, err := url.Parse(input)
	ok = err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
	return ok
}

// Fetch loads a job description from a file path or URL. HTML pages are
// converted to markdown text.
func (f *Fetcher) Fetch(ctx context.Context, input string) (content string, err error) {
	if IsURL(input) {
		content, err = f.fetchURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch job description from %s", input)
			return content, err
		}
		return content, err
	}

	content, err = readFile(input)
	return content, err
}

func readFile(path string) (content string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = failure.Wrap(failure.PreconditionNotMet, err, "failed to read job description file")
		return content, err
	}

	content = strings.TrimSpace(string(data))
	if content == "" {
		err = failure.Newf(failure.PreconditionNotMet, "job description file is empty: %s", path)
		return content, err
	}

	return content, err
}

func (f *Fetcher) fetchURL(ctx context.Context, pageURL string) (content string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		err = failure.Wrap(failure.PreconditionNotMet, err, "invalid job description URL")
		return content, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")

	var resp *http.Response
	resp, err = f.client.Do(req)
	if err != nil {
		err = failure.Wrap(failure.TransportError, err, "HTTP request failed")
		return content, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = failure.Newf(failure.TransportError, "HTTP request failed with status: %d", resp.StatusCode)
		return content, err
	}

	var body []byte
	body, err = io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		err = failure.Wrap(failure.TransportError, err, "failed to read response body")
		return content, err
	}

	if isPlainText(resp.Header.Get("Content-Type")) {
		content = strings.TrimSpace(string(body))
	} else {
		content, err = htmlToText(string(body))
		if err != nil {
			return content, err
		}
	}

	if content == "" {
		err = failure.New(failure.PreconditionNotMet, "page has no text (it may be rendered by JavaScript)")
		return content, err
	}

	return content, err
}

func isPlainText(contentType string) (ok bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	ok = err == nil && mediaType == "text/plain"
	return ok
}

// htmlToText converts a page to markdown, which keeps headings and bullet
// lists readable for the model.
func htmlToText(body string) (text string, err error) {
	if !strings.Contains(body, "<") {
		text = strings.TrimSpace(body)
		return text, err
	}

	text, err = htmltomarkdown.ConvertString(body)
	if err != nil {
		err = failure.Wrap(failure.ExtractionFailed, err, "failed to convert HTML")
		return text, err
	}

	text = strings.TrimSpace(text)
	return text, err
}
