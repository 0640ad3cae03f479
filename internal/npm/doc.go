// Package npm talks to the npm registry: it fetches package documents with
// retries, reads dist-tags and published versions, and publishes package
// directories through the npm CLI.
package npm
