// Package sse delivers server-sent events to subscribed HTTP clients.
//
// A Hub routes published events to clients whose ID matches a glob pattern,
// so one publish for "job:<id>:*" reaches every stream watching that job.
// Writer frames events on the wire.
package sse
