package config

import (
	"fmt"

	"github.com/Veraticus/wastewise/internal/common"
	"github.com/Veraticus/wastewise/internal/verify"
	"github.com/spf13/viper"
)

// LoadVerifyConfig builds the decision policy from verify.* keys, falling back to defaults.
func LoadVerifyConfig() (*verify.Policy, error) {
	policy := verify.NewPolicy()

	if viper.IsSet("verify.threshold") {
		policy.Threshold = viper.GetFloat64("verify.threshold")
	}
	if viper.IsSet("verify.reward_min") {
		policy.MinReward = viper.GetInt("verify.reward_min")
	}
	if viper.IsSet("verify.reward_max") {
		policy.MaxReward = viper.GetInt("verify.reward_max")
	}

	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return policy, nil
}
