// Package llm provides the generative model configuration and client abstraction
// used to answer legal questions.
package llm

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Model    string
	// Temperature is left to the provider default when nil.
	Temperature *float32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    DefaultModel,
	}
}

// GetModel returns the configured model name, falling back to DefaultModel.
func (c *Config) GetModel() string {
	if c == nil || c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

// WithModel returns a new Config with a specific model
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	if c.Temperature != nil {
		t := *c.Temperature
		newConfig.Temperature = &t
	}
	return &newConfig
}

// WithTemperature returns a new Config with a fixed sampling temperature
func (c *Config) WithTemperature(t float32) *Config {
	newConfig := *c
	newConfig.Temperature = &t
	return &newConfig
}
