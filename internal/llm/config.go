// Package llm provides centralized LLM configuration and client abstractions.
// Callers pick a model tier; the config maps tiers to provider model names.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for cheap, high-volume calls
	TierLite ModelTier = "lite"
	// TierStandard is for structured classification such as requirement inference
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or ambiguous documents
	TierAdvanced ModelTier = "advanced"
)

// Provider selects the SDK used to reach Gemini.
type Provider string

const (
	// ProviderGemini uses github.com/google/generative-ai-go.
	ProviderGemini Provider = "gemini"
	// ProviderGenAI uses google.golang.org/genai.
	ProviderGenAI Provider = "genai"
)

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	// JSONOutput asks the model for an application/json response body.
	JSONOutput bool
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.1,
		JSONOutput:  true,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := c.clone()
	out.Models[tier] = model
	return out
}

// WithProvider returns a new Config using the given provider.
func (c *Config) WithProvider(p Provider) *Config {
	out := c.clone()
	out.Provider = p
	return out
}

func (c *Config) clone() *Config {
	out := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)),
		Temperature: c.Temperature,
		JSONOutput:  c.JSONOutput,
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	return out
}
