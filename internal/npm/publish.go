package npm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// PackageJSON is the manifest written to package.json.
type PackageJSON struct {
	Name        string      `json:"name"`
	Version     string      `json:"version"`
	Description string      `json:"description"`
	Keywords    []string    `json:"keywords,omitempty"`
	License     string      `json:"license"`
	Repository  *Repository `json:"repository,omitempty"`
}

// Repository is the package.json "repository" field.
type Repository struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Publisher publishes a package directory to the registry.
type Publisher interface {
	// Publish publishes dir, whose package.json holds manifest. When dry is
	// true nothing is sent to the registry.
	Publish(ctx context.Context, dir string, manifest PackageJSON, dry bool) error
}

// CLIPublisher publishes by running `npm publish`.
type CLIPublisher struct {
	// NpmBin is the npm executable; defaults to "npm" looked up on PATH.
	NpmBin string
	// RegistryURL is the registry to publish to.
	RegistryURL string
	// Token authenticates the publish. It is written to a private .npmrc for
	// the duration of the command.
	Token string
	// Logger receives publish progress.
	Logger *slog.Logger
	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewCLIPublisher creates a publisher for the given registry and token.
func NewCLIPublisher(registryURL, token string, logger *slog.Logger) *CLIPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIPublisher{
		NpmBin:      "npm",
		RegistryURL: registryURL,
		Token:       token,
		Logger:      logger,
	}
}

// Publish implements Publisher.
func (p *CLIPublisher) Publish(ctx context.Context, dir string, manifest PackageJSON, dry bool) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := manifest.Name + "@" + manifest.Version

	if dry {
		logger.Info("(dry) skip publish", "package", id, "dir", dir)
		return nil
	}

	bin := p.NpmBin
	if bin == "" {
		bin = "npm"
	}
	npmBin, err := exec.LookPath(bin)
	if err != nil {
		return fmt.Errorf("publishing requires npm: %w", err)
	}

	registry := p.RegistryURL
	if registry == "" {
		registry = DefaultRegistryURL
	}

	rcDir, err := os.MkdirTemp("", "publish-registry-npmrc-*")
	if err != nil {
		return fmt.Errorf("creating npmrc directory: %w", err)
	}
	defer os.RemoveAll(rcDir)

	rcPath := filepath.Join(rcDir, ".npmrc")
	if err := writeNpmrc(rcPath, registry, p.Token); err != nil {
		return err
	}

	logger.Info("publishing", "package", id, "registry", registry)

	cmd := exec.CommandContext(ctx, npmBin, "publish", dir,
		"--registry", registry,
		"--userconfig", rcPath,
		"--access", "public",
	)
	cmd.Dir = dir

	stdout := p.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := p.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	var stderrBuf bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderrBuf.String())
		if msg != "" {
			return fmt.Errorf("npm publish %s: %w: %s", id, err, msg)
		}
		return fmt.Errorf("npm publish %s: %w", id, err)
	}

	logger.Info("published", "package", id)
	return nil
}

// writeNpmrc writes an npmrc holding the auth token for registry. The file
// is readable only by the current user.
func writeNpmrc(path, registry, token string) error {
	var b strings.Builder
	b.WriteString("registry=" + registry + "\n")
	if token != "" {
		u, err := url.Parse(registry)
		if err != nil {
			return fmt.Errorf("parsing registry URL %q: %w", registry, err)
		}
		host := "//" + u.Host + strings.TrimRight(u.Path, "/") + "/"
		b.WriteString(host + ":_authToken=" + token + "\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("writing npmrc: %w", err)
	}
	return nil
}
