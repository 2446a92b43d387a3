package config

import (
	"fmt"

	"github.com/kbukum/backendclient/httpclient"
	"github.com/kbukum/backendclient/identity"
	"github.com/kbukum/backendclient/logger"
	"github.com/kbukum/backendclient/observability"
)

// Config is the complete configuration of a backend client process.
type Config struct {
	Name          string               `yaml:"name" mapstructure:"name" validate:"required"`
	Environment   string               `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Backend       httpclient.Config    `yaml:"backend" mapstructure:"backend"`
	Identity      identity.Config      `yaml:"identity" mapstructure:"identity"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies default values to every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultServiceName
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Backend.Name == "" {
		c.Backend.Name = c.Name
	}
	c.Logging.ApplyDefaults()
	c.Backend.ApplyDefaults()
	c.Identity.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks struct tags first, then each section's own rules.
func (c *Config) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Backend.Validate(); err != nil {
		return fmt.Errorf("config: backend: %w", err)
	}
	if err := c.Identity.Validate(); err != nil {
		return fmt.Errorf("config: identity: %w", err)
	}
	return nil
}
