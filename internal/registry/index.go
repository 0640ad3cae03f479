package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/typings-tools/publish-registry/internal/parallel"
	"github.com/typings-tools/publish-registry/internal/tags"
	"github.com/typings-tools/publish-registry/internal/typings"
)

// DefaultConcurrency is the number of registry requests kept in flight.
const DefaultConcurrency = 25

// Fetcher returns the dist-tags of a package by its escaped npm name.
type Fetcher interface {
	FetchDistTags(ctx context.Context, escapedName string) (map[string]string, error)
}

// Index is the content of index.json.
type Index struct {
	Entries map[string]tags.Versions `json:"entries"`
}

// Marshal encodes the index as indented JSON with a trailing newline.
func (idx *Index) Marshal() ([]byte, error) {
	return marshalJSON(idx)
}

// CheckTags reports the first entry recording a tag that catalog does not
// contain. Entries are checked in name order.
func (idx *Index) CheckTags(catalog tags.Catalog) error {
	names := slices.Sorted(maps.Keys(idx.Entries))
	for _, name := range names {
		for _, tv := range idx.Entries[name] {
			if !catalog.Contains(tv.Tag) {
				return fmt.Errorf("entry %s: tag %q is not in the catalog", name, tv.Tag)
			}
		}
	}
	return nil
}

// GenerateOptions tunes Generate.
type GenerateOptions struct {
	// Concurrency caps in-flight registry requests; zero means DefaultConcurrency.
	Concurrency int
	// Reporter renders progress; nil means a progress line on stderr.
	Reporter parallel.Reporter
}

// Generate fetches the dist-tags of every package and keeps the ones in
// catalog. Entries are keyed by the package's display name. Any fetch failure
// fails the whole generation.
func Generate(ctx context.Context, log *slog.Logger, packages []typings.Data, fetcher Fetcher, catalog tags.Catalog, opts GenerateOptions) (*Index, error) {
	concurrency := opts.Concurrency
	if concurrency == 0 {
		concurrency = DefaultConcurrency
	}

	fetch := func(ctx context.Context, pkg typings.Data, _ int, _ []typings.Data) (tags.Versions, error) {
		distTags, err := fetcher.FetchDistTags(ctx, pkg.FullEscapedNpmName())
		if err != nil {
			return nil, fmt.Errorf("fetching dist-tags of %s: %w", pkg.FullNpmName(), err)
		}
		if unknown := catalog.Unknown(distTags); len(unknown) > 0 {
			log.Debug("ignoring unrecognized dist-tags", "package", pkg.Name, "tags", unknown)
		}
		picked := catalog.Pick(distTags)
		if _, ok := picked.Get(tags.Latest); !ok {
			log.Debug("no latest dist-tag", "package", pkg.Name)
		}
		return picked, nil
	}

	versions, err := parallel.Map(ctx, concurrency, packages, fetch,
		parallel.WithProgress(parallel.Progress[typings.Data]{
			Name:     "Generating registry...",
			Flavor:   func(pkg typings.Data) string { return pkg.Name },
			Reporter: opts.Reporter,
		}),
	)
	if err != nil {
		return nil, err
	}

	idx := &Index{Entries: make(map[string]tags.Versions, len(packages))}
	for i, pkg := range packages {
		idx.Entries[pkg.Name] = versions[i]
	}
	return idx, nil
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
