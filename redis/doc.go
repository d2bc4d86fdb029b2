// Package redis connects the service to Redis for state that must survive a
// restart or be shared between replicas: audio job records and refresh
// token sessions.
//
// TypedStore implements provider.ContextStore, so any store that takes a
// ContextStore can be backed by Redis instead of process memory:
//
//	client, _ := redis.New(cfg, log)
//	jobs := audiojob.NewRegistry(redis.NewTypedStore[audiojob.Job](client, "audiojob"), checker)
package redis
