// Package version reports the build the process is running. Values are set
// with -ldflags and fall back to the module's embedded VCS metadata:
//
//	go build -ldflags "-X github.com/kbukum/speechturn/version.Version=1.2.0" ./cmd/speechturn
package version
