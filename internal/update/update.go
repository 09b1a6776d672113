// Package update compares the running binary against the newest published
// release.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// ReleasesURL is the feed queried for the newest release. Tests point it at
// a local server.
var ReleasesURL = "https://api.github.com/repos/autolab/autolab-cli/releases/latest"

const checkTimeout = 5 * time.Second

// ErrUnreleased reports that the running binary carries no release version,
// so there is nothing to compare against.
var ErrUnreleased = errors.New("development build has no release version")

// Info describes how the running binary relates to the newest release.
type Info struct {
	Current  string
	Latest   string
	URL      string
	Outdated bool
}

type releaseDocument struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check fetches the newest release and compares it against current. Network
// and feed problems come back as errors; callers decide whether a failed
// check is worth mentioning.
func Check(ctx context.Context, current string) (*Info, error) {
	if current == "dev" || current == "" {
		return nil, ErrUnreleased
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleasesURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release feed returned HTTP %d", resp.StatusCode)
	}

	var release releaseDocument
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("malformed release feed: %w", err)
	}

	info := &Info{
		Current: current,
		Latest:  strings.TrimPrefix(release.TagName, "v"),
		URL:     release.HTMLURL,
	}
	currentTag := ensureV(current)
	latestTag := ensureV(release.TagName)
	if semver.IsValid(currentTag) && semver.IsValid(latestTag) {
		info.Outdated = semver.Compare(latestTag, currentTag) > 0
	}
	return info, nil
}

func ensureV(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
