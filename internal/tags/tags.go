// Package tags holds the catalog of dist-tags the registry index records for
// each typings package, and the ordered tag-to-version mapping built from it.
package tags

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"go.yaml.in/yaml/v3"
)

// Latest is the dist-tag npm assigns to the most recent release.
const Latest = "latest"

//go:embed tags.yaml
var rawCatalog []byte

var (
	defaultOnce    sync.Once
	defaultCatalog Catalog
	defaultErr     error
)

type catalogFile struct {
	TypeScriptVersions []string `yaml:"typescript_versions"`
}

// Catalog is the ordered set of recognized dist-tags.
type Catalog []string

// Default returns the embedded catalog: "ts<version>" for every supported
// TypeScript version followed by "latest".
func Default() (Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(rawCatalog)
	})
	return defaultCatalog, defaultErr
}

// Parse reads a catalog from YAML in the embedded tags.yaml format.
func Parse(data []byte) (Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing tag catalog: %w", err)
	}
	c := make(Catalog, 0, len(f.TypeScriptVersions)+1)
	for _, v := range f.TypeScriptVersions {
		c = append(c, "ts"+v)
	}
	return append(c, Latest), nil
}

// Contains reports whether tag is part of the catalog.
func (c Catalog) Contains(tag string) bool {
	return slices.Contains(c, tag)
}

// Pick keeps the catalog's tags that are present in distTags, in catalog order.
func (c Catalog) Pick(distTags map[string]string) Versions {
	var out Versions
	for _, tag := range c {
		if v, ok := distTags[tag]; ok {
			out = append(out, TagVersion{Tag: tag, Version: v})
		}
	}
	return out
}

// Unknown returns the tags in distTags that the catalog does not recognize,
// sorted.
func (c Catalog) Unknown(distTags map[string]string) []string {
	var out []string
	for tag := range distTags {
		if !c.Contains(tag) {
			out = append(out, tag)
		}
	}
	slices.Sort(out)
	return out
}

// TagVersion pairs a dist-tag with the version it points to.
type TagVersion struct {
	Tag     string
	Version string
}

// Versions is an ordered tag-to-version mapping. It encodes as a JSON object
// whose keys keep the slice order.
type Versions []TagVersion

// Get returns the version for tag.
func (vs Versions) Get(tag string) (string, bool) {
	for _, tv := range vs {
		if tv.Tag == tag {
			return tv.Version, true
		}
	}
	return "", false
}

// MarshalJSON implements json.Marshaler.
func (vs Versions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tv := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(tv.Tag)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(tv.Version)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping the document's key order.
func (vs *Versions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("tag versions: expected object, got %v", tok)
	}
	out := Versions{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		tag, ok := tok.(string)
		if !ok {
			return fmt.Errorf("tag versions: unexpected key %v", tok)
		}
		var version string
		if err := dec.Decode(&version); err != nil {
			return fmt.Errorf("tag versions: value for %q: %w", tag, err)
		}
		out = append(out, TagVersion{Tag: tag, Version: version})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*vs = out
	return nil
}
