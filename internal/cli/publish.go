package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/typings-tools/publish-registry/internal/branding"
	"github.com/typings-tools/publish-registry/internal/config"
	"github.com/typings-tools/publish-registry/internal/npm"
	"github.com/typings-tools/publish-registry/internal/progress"
	"github.com/typings-tools/publish-registry/internal/registry"
	"github.com/typings-tools/publish-registry/internal/runlog"
	"github.com/typings-tools/publish-registry/internal/tags"
	"github.com/typings-tools/publish-registry/internal/typings"
)

// runPublish wires the registry publisher from cfg and runs it. The run log
// is written even when the run fails.
func runPublish(ctx context.Context, cfg *config.Config, dry bool, stderr io.Writer) (err error) {
	log := runlog.New(stderr, cfg.SlogLevel())
	defer func() {
		if err != nil {
			log.Error("Run failed", "error", err)
		}
		path, werr := log.WriteFile(cfg.LogDir, branding.LogFileName())
		if werr != nil {
			if err == nil {
				err = werr
			}
			return
		}
		fmt.Fprintf(stderr, "Log written to %s\n", path)
	}()

	if dry {
		log.Info("Dry run: the package will be generated but not published")
	} else if cfg.NpmToken == "" {
		log.Warn("No npm token configured; npm publish will use its own credentials", "env", branding.EnvVar("npm_token"))
	}

	p, err := newPublisher(cfg, log, stderr)
	if err != nil {
		return err
	}
	return p.Run(ctx, dry)
}

func newPublisher(cfg *config.Config, log *runlog.Logger, stderr io.Writer) (*registry.Publisher, error) {
	catalog, err := tags.Default()
	if err != nil {
		return nil, fmt.Errorf("loading tag catalog: %w", err)
	}

	client := npm.New(
		npm.WithRegistryURL(cfg.RegistryURL),
		npm.WithRetries(cfg.Retries),
		npm.WithUserAgent(branding.CLIName()+"/"+buildVersion),
	)

	publisher := npm.NewCLIPublisher(client.RegistryURL(), cfg.NpmToken, log.Logger)
	publisher.NpmBin = cfg.NpmBin
	publisher.Stdout = stderr
	publisher.Stderr = stderr

	files := typings.Files{DataDir: cfg.DataDir}

	return &registry.Publisher{
		Typings:       files,
		Additions:     files,
		Fetcher:       client,
		Patches:       client,
		NPM:           publisher,
		Catalog:       catalog,
		PackageName:   branding.PackageName(),
		RepositoryURL: branding.RepositoryURL(),
		OutputDir:     cfg.OutputDir,
		Concurrency:   cfg.Concurrency,
		Reporter:      progress.New(stderr),
		Log:           log.Logger,
	}, nil
}
