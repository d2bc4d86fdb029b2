// Package config loads service configuration with viper.
//
// LoadConfig reads ./cmd/<service>/config.yml (or an explicit file), loads a
// .env file through godotenv, and overlays environment variables. Every key
// reachable through mapstructure tags is bound to its upper-case underscore
// form, so gemini.api_key is read from GEMINI_API_KEY. Extra aliases map keys
// to legacy variable names.
package config
