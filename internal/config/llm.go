package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/wastewise/internal/common"
	"github.com/Veraticus/wastewise/internal/llm"
	"github.com/spf13/viper"
)

// providerEnv maps each provider to the environment variable holding its key.
var providerEnv = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// LoadLLMConfig loads the classifier configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or WASTEWISE_ env vars)
// 2. Direct environment variables (GEMINI_API_KEY and friends)
// 3. Default values
func LoadLLMConfig() (llm.Config, error) {
	cfg := llm.Config{
		Provider:    strings.ToLower(strings.TrimSpace(viper.GetString("llm.provider"))),
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
		Timeout:     viper.GetDuration("llm.timeout"),
	}
	if cfg.Provider == "" {
		cfg.Provider = "gemini"
	}

	envVar, ok := providerEnv[cfg.Provider]
	if !ok {
		return llm.Config{}, fmt.Errorf("%w: unsupported llm.provider %q", common.ErrInvalidConfig, cfg.Provider)
	}

	cfg.APIKey = viper.GetString("llm." + cfg.Provider + "_api_key")
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(envVar)
	}
	if cfg.APIKey == "" {
		return llm.Config{}, fmt.Errorf("%w: set llm.%s_api_key or %s", common.ErrMissingConfig, cfg.Provider, envVar)
	}

	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	if cfg.Timeout > 0 && cfg.Timeout < time.Second {
		return llm.Config{}, fmt.Errorf("%w: llm.timeout %s is too short", common.ErrInvalidConfig, cfg.Timeout)
	}

	return cfg, nil
}
