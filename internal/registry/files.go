package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/typings-tools/publish-registry/internal/npm"
	"github.com/typings-tools/publish-registry/internal/schema"
	"github.com/typings-tools/publish-registry/internal/tags"
)

// Output file names.
const (
	PackageFile = "package.json"
	IndexFile   = "index.json"
	ReadmeFile  = "README.md"
)

const description = "A registry of TypeScript declaration file packages published within the @types scope."

// Manifest returns the package.json for the registry package.
func Manifest(name, version, repoURL string) npm.PackageJSON {
	m := npm.PackageJSON{
		Name:        name,
		Version:     version,
		Description: description,
		Keywords:    []string{"TypeScript", "declaration", "files", "types", "packages"},
		License:     "MIT",
	}
	if repoURL != "" {
		m.Repository = &npm.Repository{Type: "git", URL: repoURL}
	}
	return m
}

// Readme returns the README.md content for the registry package.
func Readme(name string) string {
	return "# " + name + "\n\n" +
		"This package contains a listing of all packages published to the @types scope on npm.\n" +
		"Its `index.json` maps each package name to the dist-tags it carries, e.g.\n\n" +
		"```json\n{ \"entries\": { \"node\": { \"latest\": \"20.1.0\", \"ts5.0\": \"20.1.0\" } } }\n```\n\n" +
		"It is regenerated and republished automatically whenever new typings packages are added.\n"
}

// Contents holds the rendered files of the registry package.
type Contents struct {
	Manifest npm.PackageJSON
	Package  []byte
	Index    []byte
	Readme   []byte
}

// Render encodes the package files, validates them against their schemas and
// checks that the index only records tags from catalog.
func Render(manifest npm.PackageJSON, idx *Index, catalog tags.Catalog) (*Contents, error) {
	if err := idx.CheckTags(catalog); err != nil {
		return nil, fmt.Errorf("%s: %w", IndexFile, err)
	}

	pkg, err := marshalJSON(manifest)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", PackageFile, err)
	}
	index, err := idx.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", IndexFile, err)
	}

	if err := checkResult(PackageFile)(schema.ValidatePackage(pkg)); err != nil {
		return nil, err
	}
	if err := checkResult(IndexFile)(schema.ValidateIndex(index)); err != nil {
		return nil, err
	}

	return &Contents{
		Manifest: manifest,
		Package:  pkg,
		Index:    index,
		Readme:   []byte(Readme(manifest.Name)),
	}, nil
}

// checkResult turns a schema validation outcome for file into an error.
func checkResult(file string) func(*schema.Result, error) error {
	return func(res *schema.Result, err error) error {
		if err != nil {
			return fmt.Errorf("validating %s: %w", file, err)
		}
		if err := res.Err(); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		return nil
	}
}

// Write replaces dir with the rendered package files.
func (c *Contents) Write(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing output directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{PackageFile, c.Package},
		{IndexFile, c.Index},
		{ReadmeFile, c.Readme},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// ValidateDir checks the package.json and index.json already written to dir
// against their schemas, and the index's tags against catalog.
func ValidateDir(dir string, catalog tags.Catalog) error {
	pkgPath := filepath.Join(dir, PackageFile)
	if err := checkResult(PackageFile)(schema.ValidateFile(schema.Package, pkgPath)); err != nil {
		return err
	}

	indexPath := filepath.Join(dir, IndexFile)
	if err := checkResult(IndexFile)(schema.ValidateFile(schema.Index, indexPath)); err != nil {
		return err
	}

	data, err := os.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", IndexFile, err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("decoding %s: %w", IndexFile, err)
	}
	if err := idx.CheckTags(catalog); err != nil {
		return fmt.Errorf("%s: %w", IndexFile, err)
	}
	return nil
}
