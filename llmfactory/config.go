package llmfactory

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
)

// Supported provider types.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	// DefaultProvider specifies the name of the provider to use
	// when none is requested. If empty, the first provider is used.
	DefaultProvider string `json:"default_provider" yaml:"default_provider"`
	// Providers specifies the list of providers to use
	Providers []*ProviderConfig `json:"providers" yaml:"providers" validate:"dive,required"`
}

// ProviderConfig describes a single LLM provider.
type ProviderConfig struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	Provider string `json:"provider" yaml:"provider" validate:"required,oneof=openai anthropic"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

var validate = validator.New()

// Validate checks the configuration for unknown providers and missing fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.WithMessage(err, "invalid provider configuration")
	}
	return nil
}

// LoadConfig from file, with environment variable expansion.
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
