// Package config loads publish-registry settings from an optional YAML file
// and TYPES_PUBLISHER_* environment variables, on top of built-in defaults.
package config
