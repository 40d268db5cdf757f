package config

// LLMConfig represents the configuration for the generative-text provider
type LLMConfig struct {
	Provider string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// CrustConfig represents the configuration for the company-data provider
type CrustConfig struct {
	BaseURL string
	APIKey  string
	Timeout string
}

// DiscoveryConfig represents the company discovery settings
type DiscoveryConfig struct {
	CandidateCap int
	BatchSize    int
	Concurrency  int
	TopN         int
}

// SMTPConfig represents the transactional email settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// GetLLM returns the generative-text provider configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetCrust returns the company-data provider configuration
func (c *Config) GetCrust() CrustConfig {
	return CrustConfig{
		BaseURL: c.GetString("crust.base_url"),
		APIKey:  c.GetString("crust.api_key"),
		Timeout: c.GetString("crust.timeout"),
	}
}

// GetDiscovery returns the company discovery settings
func (c *Config) GetDiscovery() DiscoveryConfig {
	return DiscoveryConfig{
		CandidateCap: c.GetInt("discovery.candidate_cap"),
		BatchSize:    c.GetInt("discovery.batch_size"),
		Concurrency:  c.GetInt("discovery.concurrency"),
		TopN:         c.GetInt("discovery.top_n"),
	}
}

// GetSMTP returns the transactional email settings
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Host:     c.GetString("smtp.host"),
		Port:     c.GetInt("smtp.port"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		From:     c.GetString("smtp.from"),
	}
}
