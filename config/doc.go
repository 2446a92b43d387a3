// Package config loads the backend client's configuration.
//
// Values come from an optional config.yml, an optional .env file and the
// process environment, in increasing order of precedence. API_BASE_URL is
// read once, here, and becomes backend.base_url.
//
//	cfg, err := config.Load(config.WithConfigFile("config.yml"))
package config
