package typings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Scope is the npm scope every typings package is published under.
const Scope = "types"

// Data describes one version of a typings package as recorded in
// definitions.json.
type Data struct {
	Name                string `json:"typingsPackageName"`
	LibraryName         string `json:"libraryName"`
	LibraryMajorVersion int    `json:"libraryMajorVersion"`
	LibraryMinorVersion int    `json:"libraryMinorVersion"`
	TypeScriptVersion   string `json:"typeScriptVersion,omitempty"`
	ProjectName         string `json:"projectName,omitempty"`
	ContentHash         string `json:"contentHash,omitempty"`
}

// MangledName returns the package name as it appears inside the @types
// scope. Scoped libraries "@scope/pkg" become "scope__pkg".
func (d Data) MangledName() string {
	return MangleScopedName(d.Name)
}

// FullNpmName returns the published name, e.g. "@types/node".
func (d Data) FullNpmName() string {
	return "@" + Scope + "/" + d.MangledName()
}

// FullEscapedNpmName returns the name with the scope separator URL-escaped,
// as required in registry request paths, e.g. "@types%2fnode".
func (d Data) FullEscapedNpmName() string {
	return "@" + Scope + "%2f" + d.MangledName()
}

// MangleScopedName converts "@scope/pkg" to "scope__pkg". Unscoped names are
// returned unchanged.
func MangleScopedName(name string) string {
	if !strings.HasPrefix(name, "@") {
		return name
	}
	return strings.Replace(name[1:], "/", "__", 1)
}

// definitions maps package name to version key ("<major>.<minor>") to data.
type definitions map[string]map[string]Data

// ReadTypings reads definitions.json and returns the latest version of every
// package, sorted by name.
func ReadTypings(path string) ([]Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading typings data: %w", err)
	}

	var defs definitions
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("parsing typings data %s: %w", path, err)
	}

	out := make([]Data, 0, len(defs))
	for name, versions := range defs {
		latest, err := latestVersion(versions)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", name, err)
		}
		if latest.Name == "" {
			latest.Name = name
		}
		out = append(out, latest)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// latestVersion picks the entry with the highest "<major>.<minor>" key.
func latestVersion(versions map[string]Data) (Data, error) {
	var (
		best    Data
		bestVer *semver.Version
	)
	for key, d := range versions {
		v, err := semver.NewVersion(key)
		if err != nil {
			return Data{}, fmt.Errorf("invalid version key %q: %w", key, err)
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best, bestVer = d, v
		}
	}
	if bestVer == nil {
		return Data{}, fmt.Errorf("no versions")
	}
	return best, nil
}

// ReadAdditions reads the JSON array of package names added since the last
// run. A missing file means nothing was added.
func ReadAdditions(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading additions: %w", err)
	}

	var additions []string
	if err := json.Unmarshal(raw, &additions); err != nil {
		return nil, fmt.Errorf("parsing additions %s: %w", path, err)
	}
	return additions, nil
}

// Files reads typings data from a data directory laid out by the definition
// parser: definitions.json and additions.json.
type Files struct {
	DataDir string
}

// File names inside the data directory.
const (
	DefinitionsFile = "definitions.json"
	AdditionsFile   = "additions.json"
)

// ReadTypings returns the latest version of every package.
func (f Files) ReadTypings() ([]Data, error) {
	return ReadTypings(filepath.Join(f.DataDir, DefinitionsFile))
}

// ReadAdditions returns the packages added since the last run.
func (f Files) ReadAdditions() ([]string, error) {
	return ReadAdditions(filepath.Join(f.DataDir, AdditionsFile))
}
