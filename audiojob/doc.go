// Package audiojob tracks audio that is still being synthesized after its
// turn already returned.
//
// A job is created pending, written exactly once to ready or error by the
// background task that owns it, and readable only by its owner or by a
// requester whose role grants PermissionReadAny. Jobs expire from the backing
// store after a TTL so a shared store stays bounded.
package audiojob
