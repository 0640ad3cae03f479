// Package typings reads the typings package data produced by the definition
// parser: every known package with its versions, and the list of packages
// added since the last publish run.
package typings
