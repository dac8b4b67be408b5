package jobs

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ErrLookupFailed is returned when the remote lookup itself fails (network, auth,
// bad status). It is never returned for a job that simply does not exist.
var ErrLookupFailed = errors.New("remote job lookup failed")

// Record is the structured data of a single job posting.
type Record struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

// Lookup fetches job records for the given identifiers. An empty result with a
// nil error means none of the identifiers is known to the remote source.
type Lookup interface {
	Lookup(ctx context.Context, ids []string) ([]Record, error)
}

// Matches both /jobs/view/4335742219 and /jobs/view/golang-developer-at-acme-4335742219.
var jobURLRe = regexp.MustCompile(`/jobs/view/[^?]*?(\d{7,})`)

// currentJobIDRe matches search result links such as ?currentJobId=4335742219.
var currentJobIDRe = regexp.MustCompile(`[?&]currentJobId=(\d+)`)

// ParseID normalizes user input into a job identifier. LinkedIn job URLs are
// reduced to their numeric id; anything else is returned trimmed.
func ParseID(input string) string {
	input = strings.TrimSpace(input)
	if m := jobURLRe.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	if m := currentJobIDRe.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	return input
}
