// Package cli defines the Cobra command tree for publish-registry. The root
// command runs the publish; subcommands print version information, show the
// resolved configuration, and validate an existing output directory. Commands
// only handle flags and output and delegate to internal packages for the work.
package cli
