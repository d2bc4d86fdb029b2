package bootstrap

import "github.com/kbukum/speechturn/config"

// Config is satisfied by any struct embedding config.ServiceConfig plus its
// own ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
