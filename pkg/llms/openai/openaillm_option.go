package openai

import (
	"github.com/effective-security/agentcall/schema"
	"github.com/openai/openai-go/v3/option"
)

const (
	// TokenEnvVarName is the environment variable the API key is read from.
	TokenEnvVarName = "OPENAI_API_KEY" //nolint:gosec
)

// Options holds the configuration for the OpenAI chat model.
type Options struct {
	Token        string
	Model        string
	BaseURL      string
	Organization string
	HttpClient   option.HTTPClient

	ResponseFormat *schema.ResponseFormat
}

// Option is a functional option for the OpenAI client.
type Option func(*Options)

// WithToken passes the OpenAI API token to the client. If not set, the token
// is read from the OPENAI_API_KEY environment variable.
func WithToken(token string) Option {
	return func(opts *Options) {
		opts.Token = token
	}
}

// WithModel passes the OpenAI model to the client.
func WithModel(model string) Option {
	return func(opts *Options) {
		opts.Model = model
	}
}

// WithBaseURL passes the OpenAI base url to the client, for proxies or
// OpenAI-compatible endpoints. If not set, the SDK default is used.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithOrganization passes the OpenAI organization to the client.
func WithOrganization(organization string) Option {
	return func(opts *Options) {
		opts.Organization = organization
	}
}

// WithHTTPClient allows setting a custom HTTP client.
func WithHTTPClient(client option.HTTPClient) Option {
	return func(opts *Options) {
		opts.HttpClient = client
	}
}

// WithResponseFormat allows setting a custom response format.
func WithResponseFormat(responseFormat *schema.ResponseFormat) Option {
	return func(opts *Options) {
		opts.ResponseFormat = responseFormat
	}
}
