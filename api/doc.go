// Package api mounts the public HTTP routes of the speech tutor: speech
// turns, deferred audio polling, signed audio downloads, session endpoints
// and the typed chat tutor.
package api
