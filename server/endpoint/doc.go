// Package endpoint serves the probe routes: /health, /ready, /live and /info.
package endpoint
