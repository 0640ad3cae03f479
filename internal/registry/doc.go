// Package registry builds the types-registry package: an index of the
// dist-tags every typings package carries in the npm registry. It fetches the
// registry documents concurrently, writes package.json, index.json and a
// README to the output directory, and publishes the result.
package registry
