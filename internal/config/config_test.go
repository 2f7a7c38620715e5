package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/wastewise/internal/common"
	"github.com/Veraticus/wastewise/internal/verify"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("WASTEWISE_TEST_DIR", "/srv/waste")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: home},
		{name: "tilde prefix", in: "~/data/waste.db", want: filepath.Join(home, "data/waste.db")},
		{name: "env var", in: "$WASTEWISE_TEST_DIR/waste.db", want: "/srv/waste/waste.db"},
		{name: "absolute", in: "/tmp/waste.db", want: "/tmp/waste.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDatabasePath(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	assert.Equal(t, filepath.Join(Dir(), "wastewise.db"), DatabasePath())

	viper.Set("database.path", "/tmp/custom.db")
	assert.Equal(t, "/tmp/custom.db", DatabasePath())
}

func TestLoadLLMConfig(t *testing.T) {
	tests := []struct {
		setup        func(t *testing.T)
		wantErr      error
		name         string
		wantProvider string
		wantKey      string
	}{
		{
			name: "gemini from environment",
			setup: func(t *testing.T) {
				t.Setenv("GEMINI_API_KEY", "env-key")
			},
			wantProvider: "gemini",
			wantKey:      "env-key",
		},
		{
			name: "viper key wins over environment",
			setup: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "env-key")
				viper.Set("llm.provider", "OpenAI")
				viper.Set("llm.openai_api_key", "viper-key")
			},
			wantProvider: "openai",
			wantKey:      "viper-key",
		},
		{
			name: "missing key",
			setup: func(t *testing.T) {
				t.Setenv("ANTHROPIC_API_KEY", "")
				viper.Set("llm.provider", "anthropic")
			},
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "unknown provider",
			setup: func(_ *testing.T) {
				viper.Set("llm.provider", "mystery")
			},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name: "timeout too short",
			setup: func(t *testing.T) {
				t.Setenv("GEMINI_API_KEY", "env-key")
				viper.Set("llm.timeout", 10*time.Millisecond)
			},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()
			tt.setup(t)

			cfg, err := LoadLLMConfig()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, cfg.Provider)
			assert.Equal(t, tt.wantKey, cfg.APIKey)
		})
	}
}

func TestLoadVerifyConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	policy, err := LoadVerifyConfig()
	require.NoError(t, err)
	assert.InDelta(t, verify.DefaultThreshold, policy.Threshold, 1e-9)
	assert.Equal(t, verify.DefaultMinReward, policy.MinReward)
	assert.Equal(t, verify.DefaultMaxReward, policy.MaxReward)

	viper.Set("verify.threshold", 0.85)
	viper.Set("verify.reward_min", 5)
	viper.Set("verify.reward_max", 20)
	policy, err = LoadVerifyConfig()
	require.NoError(t, err)
	assert.InDelta(t, 0.85, policy.Threshold, 1e-9)
	assert.Equal(t, 5, policy.MinReward)
	assert.Equal(t, 20, policy.MaxReward)

	viper.Set("verify.reward_max", 1)
	_, err = LoadVerifyConfig()
	require.ErrorIs(t, err, common.ErrInvalidConfig)

	viper.Set("verify.reward_max", 20)
	viper.Set("verify.threshold", "NaN")
	_, err = LoadVerifyConfig()
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}
