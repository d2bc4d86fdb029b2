// Package authz decides whether a role holds a permission.
//
// Permissions are "resource:action" strings. Policy grants patterns per
// role, where "*" stands for any resource or any action:
//
//	policy := authz.NewPolicy(map[string][]string{
//		"admin":   {"audio_jobs:*"},
//		"support": {"audio_jobs:read_any"},
//	})
//	authz.AnyRole(policy, claims.Roles, "audio_jobs:read_any")
package authz
