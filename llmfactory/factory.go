package llmfactory

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/effective-security/agentcall/pkg/llms/anthropic"
	"github.com/effective-security/agentcall/pkg/llms/openai"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentcall", "llmfactory")

// NewLLM is a wrapper for CreateLLM to allow for overriding the default implementation.
var NewLLM = CreateLLM

// Factory creates and caches LLM models from provider configuration.
type Factory interface {
	// DefaultModel returns the model of the default provider.
	DefaultModel() (llms.Model, error)
	// ModelByName returns the model of the named provider.
	ModelByName(name string) (llms.Model, error)
	// ModelByProvider returns the model of the first provider
	// of the given type, "openai" or "anthropic".
	ModelByProvider(provider string) (llms.Model, error)
}

// Load returns a factory configured from the given file.
func Load(location string) (Factory, error) {
	cfg, err := LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

type factory struct {
	cfg *Config

	defaultProvider *ProviderConfig
	byName          map[string]llms.Model
	byProvider      map[string]llms.Model
	lock            sync.Mutex
}

// New creates a new LLM factory.
// Unknown provider types are rejected here, before any round-trip.
func New(cfg *Config) (Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &factory{
		cfg:        cfg,
		byName:     make(map[string]llms.Model),
		byProvider: make(map[string]llms.Model),
	}

	if cfg.DefaultProvider != "" {
		for _, provider := range cfg.Providers {
			if provider.Name == cfg.DefaultProvider {
				f.defaultProvider = provider
				break
			}
		}
		if f.defaultProvider == nil {
			return nil, errors.Errorf("default provider not found: %s", cfg.DefaultProvider)
		}
	}

	if f.defaultProvider == nil && len(cfg.Providers) > 0 {
		f.defaultProvider = cfg.Providers[0]
	}

	return f, nil
}

// CreateLLM creates a model from the provider configuration.
func CreateLLM(cfg *ProviderConfig) (llms.Model, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		var opts []openai.Option
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.Token != "" {
			opts = append(opts, openai.WithToken(cfg.Token))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)
	case ProviderAnthropic:
		var opts []anthropic.Option
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		if cfg.Token != "" {
			opts = append(opts, anthropic.WithToken(cfg.Token))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		return anthropic.New(opts...)
	}
	return nil, errors.Errorf("unsupported provider type: %s", cfg.Provider)
}

func (f *factory) DefaultModel() (llms.Model, error) {
	if f.defaultProvider == nil {
		return nil, errors.New("no providers configured")
	}
	return f.modelFor(f.defaultProvider)
}

func (f *factory) ModelByName(name string) (llms.Model, error) {
	for _, cfg := range f.cfg.Providers {
		if cfg.Name == name {
			return f.modelFor(cfg)
		}
	}
	return nil, errors.Errorf("provider not found: %s", name)
}

func (f *factory) ModelByProvider(provider string) (llms.Model, error) {
	f.lock.Lock()
	cached, ok := f.byProvider[provider]
	f.lock.Unlock()
	if ok {
		return cached, nil
	}

	for _, cfg := range f.cfg.Providers {
		if strings.EqualFold(cfg.Provider, provider) {
			model, err := f.modelFor(cfg)
			if err != nil {
				return nil, err
			}
			f.lock.Lock()
			f.byProvider[provider] = model
			f.lock.Unlock()
			return model, nil
		}
	}
	return nil, errors.Errorf("provider not found for type: %s", provider)
}

func (f *factory) modelFor(cfg *ProviderConfig) (llms.Model, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if model, ok := f.byName[cfg.Name]; ok {
		return model, nil
	}

	model, err := NewLLM(cfg)
	if err != nil {
		return nil, err
	}

	logger.KV(xlog.DEBUG,
		"status", "created_llm",
		"provider", cfg.Provider,
		"name", cfg.Name,
		"model", model.GetName())

	f.byName[cfg.Name] = model
	return model, nil
}
