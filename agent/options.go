package agent

import (
	"time"

	"github.com/effective-security/agentcall/encoding"
	"github.com/effective-security/agentcall/pkg/llms"
	"github.com/effective-security/agentcall/pkg/prompts"
	"github.com/effective-security/agentcall/store"
)

// DefaultMaxIterations is the default cap on model round-trips per Respond call.
const DefaultMaxIterations = 8

// Option is a function that can be used to modify the behavior of the Agent Config.
type Option func(*Config)

type Config struct {
	// MaxIterations is the cap on model round-trips per Respond call.
	MaxIterations int

	// CallTimeout bounds a single model round-trip.
	CallTimeout time.Duration

	// ToolTimeout bounds a single tool invocation.
	ToolTimeout time.Duration

	// CallbackHandler is the callback handler for the agent run.
	CallbackHandler Callback

	// Store keeps conversation history between Respond calls.
	Store store.MessageStore

	// Temperature is the temperature for sampling to use in an LLM call, between 0 and 1.
	Temperature    float64
	temperatureSet bool

	// MaxTokens is the maximum number of tokens to generate to use in an LLM call.
	MaxTokens    int
	maxTokensSet bool

	// Mode selects how tool results are rendered before they are
	// returned to the model.
	Mode encoding.Mode

	// PromptTemplate overrides the default system prompt template.
	PromptTemplate prompts.FormatPrompter
}

func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		MaxIterations: DefaultMaxIterations,
		Mode:          encoding.ModePlainText,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithMaxIterations sets the cap on model round-trips per Respond call.
func WithMaxIterations(max int) Option {
	return func(o *Config) {
		if max > 0 {
			o.MaxIterations = max
		}
	}
}

// WithCallTimeout sets the timeout for a single model round-trip.
func WithCallTimeout(timeout time.Duration) Option {
	return func(o *Config) {
		o.CallTimeout = timeout
	}
}

// WithToolTimeout sets the timeout for a single tool invocation.
func WithToolTimeout(timeout time.Duration) Option {
	return func(o *Config) {
		o.ToolTimeout = timeout
	}
}

// WithCallback allows setting a custom Callback Handler.
func WithCallback(callbackHandler Callback) Option {
	return func(o *Config) {
		o.CallbackHandler = callbackHandler
	}
}

// WithStore sets the message store for conversation history.
func WithStore(s store.MessageStore) Option {
	return func(o *Config) {
		o.Store = s
	}
}

// WithTemperature is an option for LLM.Call.
func WithTemperature(temperature float64) Option {
	return func(o *Config) {
		o.Temperature = temperature
		o.temperatureSet = true
	}
}

// WithMaxTokens is an option for LLM.Call.
func WithMaxTokens(maxTokens int) Option {
	return func(o *Config) {
		o.MaxTokens = maxTokens
		o.maxTokensSet = true
	}
}

// WithEncodingMode selects how tool results are rendered.
func WithEncodingMode(mode encoding.Mode) Option {
	return func(o *Config) {
		o.Mode = mode
	}
}

// WithPromptTemplate overrides the default system prompt template.
func WithPromptTemplate(tmpl prompts.FormatPrompter) Option {
	return func(o *Config) {
		o.PromptTemplate = tmpl
	}
}

// GetCallOptions returns the LLM call options from the config.
func (c *Config) GetCallOptions() []llms.CallOption {
	var callOptions []llms.CallOption
	if c.maxTokensSet {
		callOptions = append(callOptions, llms.WithMaxTokens(c.MaxTokens))
	}
	if c.temperatureSet {
		callOptions = append(callOptions, llms.WithTemperature(c.Temperature))
	}
	return callOptions
}
