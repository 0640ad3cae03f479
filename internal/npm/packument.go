package npm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// packument is the subset of a registry package document we read.
type packument struct {
	DistTags map[string]string         `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
}

func (c *Client) fetchPackument(ctx context.Context, escapedName string) (*packument, error) {
	raw, err := c.FetchJSON(ctx, c.PackageURL(escapedName), true)
	if err != nil {
		return nil, err
	}
	var doc packument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing registry document for %s: %w", escapedName, err)
	}
	return &doc, nil
}

// FetchDistTags returns the dist-tags of the package with the given escaped
// name, e.g. "@types%2fnode".
func (c *Client) FetchDistTags(ctx context.Context, escapedName string) (map[string]string, error) {
	doc, err := c.fetchPackument(ctx, escapedName)
	if err != nil {
		return nil, err
	}
	if doc.DistTags == nil {
		return map[string]string{}, nil
	}
	return doc.DistTags, nil
}

// FetchLastPatchNumber returns the highest patch number published for the
// package within the given major.minor line. It returns -1 when the package
// has never been published or has no version in that line.
func (c *Client) FetchLastPatchNumber(ctx context.Context, escapedName string, major, minor uint64) (int, error) {
	doc, err := c.fetchPackument(ctx, escapedName)
	if errors.Is(err, ErrNotFound) {
		return -1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("looking up versions of %s: %w", escapedName, err)
	}

	published := make([]string, 0, len(doc.Versions))
	for v := range doc.Versions {
		published = append(published, v)
	}
	return LastPatch(published, major, minor), nil
}

// LastPatch returns the highest patch among versions in the major.minor line,
// ignoring prereleases and unparsable strings, or -1 if there is none.
func LastPatch(versions []string, major, minor uint64) int {
	last := -1
	for _, s := range versions {
		v, err := semver.StrictNewVersion(s)
		if err != nil || v.Prerelease() != "" {
			continue
		}
		if v.Major() == major && v.Minor() == minor && int(v.Patch()) > last {
			last = int(v.Patch())
		}
	}
	return last
}
