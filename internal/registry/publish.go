package registry

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/typings-tools/publish-registry/internal/npm"
	"github.com/typings-tools/publish-registry/internal/parallel"
	"github.com/typings-tools/publish-registry/internal/tags"
	"github.com/typings-tools/publish-registry/internal/typings"
)

// TypingsSource lists the latest version of every typings package.
type TypingsSource interface {
	ReadTypings() ([]typings.Data, error)
}

// AdditionsSource lists the packages added since the last run.
type AdditionsSource interface {
	ReadAdditions() ([]string, error)
}

// PatchLookup returns the last published patch number of a package in a
// major.minor line, or -1 if there is none.
type PatchLookup interface {
	FetchLastPatchNumber(ctx context.Context, escapedName string, major, minor uint64) (int, error)
}

// Publisher regenerates and publishes the registry package.
type Publisher struct {
	Typings   TypingsSource
	Additions AdditionsSource
	Fetcher   Fetcher
	Patches   PatchLookup
	NPM       npm.Publisher
	Catalog   tags.Catalog

	// PackageName is the name of the published package, e.g. "types-registry".
	PackageName string
	// RepositoryURL goes into package.json when set.
	RepositoryURL string
	// OutputDir receives the package directory <OutputDir>/<PackageName>.
	OutputDir   string
	Concurrency int
	Reporter    parallel.Reporter
	Log         *slog.Logger
}

// PackageDir returns the directory the package files are written to.
func (p *Publisher) PackageDir() string {
	return filepath.Join(p.OutputDir, p.PackageName)
}

// Run regenerates the registry package and publishes it. When no packages
// were added since the last run it only logs and returns. With dry set the
// files are still written but the publish is simulated.
func (p *Publisher) Run(ctx context.Context, dry bool) error {
	log := p.Log
	if log == nil {
		log = slog.Default()
	}

	additions, err := p.Additions.ReadAdditions()
	if err != nil {
		return fmt.Errorf("reading additions: %w", err)
	}
	if len(additions) == 0 {
		log.Info("No new packages published, so no need to publish " + p.PackageName + ".")
		return nil
	}
	log.Info("New packages detected", "count", len(additions))

	packages, err := p.Typings.ReadTypings()
	if err != nil {
		return fmt.Errorf("reading typings: %w", err)
	}
	log.Info("Read typings", "count", len(packages))

	idx, err := Generate(ctx, log, packages, p.Fetcher, p.Catalog, GenerateOptions{
		Concurrency: p.Concurrency,
		Reporter:    p.Reporter,
	})
	if err != nil {
		return fmt.Errorf("generating registry: %w", err)
	}
	log.Info("Generated registry", "entries", len(idx.Entries))

	lastPatch, err := p.Patches.FetchLastPatchNumber(ctx, p.PackageName, versionMajor, versionMinor)
	if err != nil {
		return fmt.Errorf("looking up last published version: %w", err)
	}
	version := Version(lastPatch)

	contents, err := Render(Manifest(p.PackageName, version, p.RepositoryURL), idx, p.Catalog)
	if err != nil {
		return err
	}

	dir := p.PackageDir()
	if err := contents.Write(dir); err != nil {
		return err
	}
	log.Info("Wrote package", "dir", dir, "version", version)

	if err := p.NPM.Publish(ctx, dir, contents.Manifest, dry); err != nil {
		return fmt.Errorf("publishing %s@%s: %w", p.PackageName, version, err)
	}
	if dry {
		log.Info("Dry run complete", "package", p.PackageName, "version", version)
	} else {
		log.Info("Published", "package", p.PackageName, "version", version)
	}
	return nil
}
