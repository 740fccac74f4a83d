package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const repoFetchTimeout = 30 * time.Second

const defaultRawBaseURL = "https://raw.githubusercontent.com"

var repoURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/?#]+)`)

// readmeCandidates lists README filename case variants crossed with the two
// default branch names, in probe order.
var readmeCandidates = []struct {
	branch string
	file   string
}{
	{"main", "README.md"},
	{"master", "README.md"},
	{"main", "Readme.md"},
	{"master", "Readme.md"},
	{"main", "readme.md"},
	{"master", "readme.md"},
}

// Repository extracts the README of a source repository by probing the raw
// file locations of the common filename and branch combinations.
type Repository struct {
	rawBaseURL string
}

// NewRepository creates a repository README extractor.
func NewRepository() *Repository {
	return &Repository{rawBaseURL: defaultRawBaseURL}
}

// parseRepoURL pulls owner and repo out of a repository URL.
func parseRepoURL(url string) (owner, repo string, err error) {
	m := repoURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", "", fmt.Errorf("could not parse repository URL: %s", url)
	}
	return m[1], strings.TrimSuffix(m[2], ".git"), nil
}

func (r *Repository) ExtractContent(ctx context.Context, url string) (string, error) {
	owner, repo, err := parseRepoURL(url)
	if err != nil {
		return "", newError(KindMalformedURL, "%v", err)
	}

	for _, c := range readmeCandidates {
		probeURL := fmt.Sprintf("%s/%s/%s/%s/%s", r.rawBaseURL, owner, repo, c.branch, c.file)
		status, body, err := fetchStatus(ctx, probeURL, repoFetchTimeout)
		if err != nil || status != 200 {
			continue
		}
		if content := strings.TrimSpace(string(body)); content != "" {
			return content, nil
		}
	}

	return "", newError(KindNotFound, "could not find a README for %s/%s", owner, repo)
}

func (r *Repository) DocumentName(ctx context.Context, url, content string) string {
	// Prefer the README's own first heading when it has one.
	if h := firstHeading(content); h != "" {
		return shorten(h)
	}

	owner, repo, err := parseRepoURL(url)
	if err != nil {
		return "Repository"
	}
	name := owner + "/" + repo
	if len(name) > 60 {
		name = repo
	}
	return shorten(name)
}

func (r *Repository) PromptTemplate() string { return "repository" }

// firstHeading returns the text of the first heading in a markdown document,
// or "" when the document has none or cannot be walked.
func firstHeading(source string) string {
	src := []byte(source)
	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	var heading string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			var b strings.Builder
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					b.Write(t.Segment.Value(src))
				}
			}
			heading = strings.TrimSpace(b.String())
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return heading
}
