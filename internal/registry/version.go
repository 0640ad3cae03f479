package registry

import (
	"github.com/Masterminds/semver/v3"
)

// The types-registry package is always published in the 0.1.x line; each
// run bumps the patch number.
const (
	versionMajor = 0
	versionMinor = 1
)

// Version returns the version following lastPatch in the 0.1.x line. A
// lastPatch of -1 (never published) yields 0.1.0.
func Version(lastPatch int) string {
	next := lastPatch + 1
	if next < 0 {
		next = 0
	}
	return semver.New(versionMajor, versionMinor, uint64(next), "", "").String()
}
