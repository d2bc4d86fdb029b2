// Package util holds small parsing helpers shared by configuration and the
// startup log.
package util
