// Package bootstrap runs a service process: it validates the config, builds
// the logger, starts registered components, runs configure callbacks and
// shuts everything down on SIGINT or SIGTERM.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(storageComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error { ... })
//	return app.Run(ctx)
package bootstrap
