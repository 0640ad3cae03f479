// Package branding provides compile-time identity values for the CLI and the
// package it publishes. Values come from the embedded branding.yaml, with
// hard defaults for anything it leaves out.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName       string `yaml:"cli_name"`
	DisplayName   string `yaml:"display_name"`
	Description   string `yaml:"description"`
	PackageName   string `yaml:"package_name"`
	EnvPrefix     string `yaml:"env_prefix"`
	RepositoryURL string `yaml:"repository_url"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:       "publish-registry",
			DisplayName:   "types-registry publisher",
			Description:   "Publish the types-registry index of @types dist-tags",
			PackageName:   "types-registry",
			EnvPrefix:     "TYPES_PUBLISHER",
			RepositoryURL: "",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "publish-registry").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// PackageName returns the name of the published registry package.
func PackageName() string { load(); return defaults.PackageName }

// EnvPrefix returns the environment variable prefix (e.g., "TYPES_PUBLISHER").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// RepositoryURL returns the git URL recorded in the published package.json.
func RepositoryURL() string { load(); return defaults.RepositoryURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("npm_token") → "TYPES_PUBLISHER_NPM_TOKEN".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}

// LogFileName is the name of the markdown run log.
func LogFileName() string {
	load()
	return defaults.CLIName + ".md"
}
