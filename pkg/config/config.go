// Package config provides policy configuration loading and validation for
// hrpulse. Everything the aggregation core treats as policy rather than
// business fact lives here: the month-name table, the position vocabulary,
// team-name synonyms, award-tier day thresholds, and risk-score weights.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrNoMonthNames       = errors.New("month name table must not be empty")
	ErrBadTierOrder       = errors.New("award tier thresholds must be strictly decreasing")
	ErrBadRiskWeight      = errors.New("risk weights must be non-negative")
	ErrBadAttendanceFloor = errors.New("attendance floor must be within (0, 100]")
	ErrBadTenureThreshold = errors.New("tenure thresholds must be positive")
)

// Default tenure thresholds, in days.
const (
	defaultEarlyTenureDays    = 60
	defaultPostAssignmentDays = 90
	defaultLongTermDays       = 3 * 365
)

// Default award tier thresholds, in days.
const (
	defaultTierPlatinumDays = 3650
	defaultTierGoldDays     = 1825
	defaultTierSilverDays   = 1095
	defaultTierBronzeDays   = 365
)

// Default risk-score weights. These are heuristic policy values, not
// derived business rules; deployments tune them in config.
const (
	defaultRiskAttendanceFloor  = 90.0
	defaultRiskAttendanceWeight = 30.0
	defaultRiskTrainingFloor    = 80.0
	defaultRiskTrainingWeight   = 25.0
	defaultRiskNegativeFeedback = 25.0
	defaultRiskNeutralFeedback  = 12.5
	defaultRiskPerUnauthorized  = 20.0
)

const maxAttendancePercent = 100.0

// Policy holds all tunable aggregation parameters.
type Policy struct {
	Months MonthNames `mapstructure:"months"`
	Vocab  Vocabulary `mapstructure:"vocabulary"`
	Tenure Tenure     `mapstructure:"tenure"`
	Tiers  TierPolicy `mapstructure:"tiers"`
	Risk   RiskPolicy `mapstructure:"risk"`
}

// MonthNames maps lowercase month-name tokens to month numbers. Passed
// into the window resolver so no calendar knowledge is embedded there.
type MonthNames map[string]time.Month

// Resolve looks up a token case-insensitively.
func (m MonthNames) Resolve(token string) (time.Month, bool) {
	month, ok := m[strings.ToLower(strings.TrimSpace(token))]

	return month, ok
}

// Vocabulary holds the known position names and team-name normalization
// table used during record validation.
type Vocabulary struct {
	Positions    []string          `mapstructure:"positions"`
	TeamSynonyms map[string]string `mapstructure:"team_synonyms"`
}

// KnownPosition reports whether position is in the vocabulary.
func (v Vocabulary) KnownPosition(position string) bool {
	for _, p := range v.Positions {
		if strings.EqualFold(p, position) {
			return true
		}
	}

	return false
}

// CanonicalTeam returns the canonical name for a team and whether the
// input was a non-canonical synonym.
func (v Vocabulary) CanonicalTeam(team string) (string, bool) {
	canonical, isSynonym := v.TeamSynonyms[strings.ToLower(strings.TrimSpace(team))]
	if isSynonym {
		return canonical, true
	}

	return team, false
}

// Tenure holds the day thresholds used by the metric schema.
type Tenure struct {
	EarlyDays          int `mapstructure:"early_days"`
	PostAssignmentDays int `mapstructure:"post_assignment_days"`
	LongTermDays       int `mapstructure:"long_term_days"`
}

// TierPolicy holds award tier thresholds in tenure days, highest first.
type TierPolicy struct {
	PlatinumDays int `mapstructure:"platinum_days"`
	GoldDays     int `mapstructure:"gold_days"`
	SilverDays   int `mapstructure:"silver_days"`
	BronzeDays   int `mapstructure:"bronze_days"`
}

// RiskPolicy holds the weights of the heuristic early-attrition score.
type RiskPolicy struct {
	AttendanceFloor  float64 `mapstructure:"attendance_floor"`
	AttendanceWeight float64 `mapstructure:"attendance_weight"`
	TrainingFloor    float64 `mapstructure:"training_floor"`
	TrainingWeight   float64 `mapstructure:"training_weight"`
	NegativeFeedback float64 `mapstructure:"negative_feedback"`
	NeutralFeedback  float64 `mapstructure:"neutral_feedback"`
	PerUnauthorized  float64 `mapstructure:"per_unauthorized"`
}

// Load reads policy configuration from an optional file plus HRPULSE_*
// environment variables, applying defaults for anything unset.
func Load(configPath string) (*Policy, error) {
	viperCfg := viper.New()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("hrpulse")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
	}

	viperCfg.SetEnvPrefix("HRPULSE")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	policy := Default()

	unmarshalErr := viperCfg.Unmarshal(policy)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := Validate(policy)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return policy, nil
}

// Validate checks internal consistency of a policy.
func Validate(policy *Policy) error {
	if len(policy.Months) == 0 {
		return ErrNoMonthNames
	}

	tiers := policy.Tiers
	if tiers.PlatinumDays <= tiers.GoldDays || tiers.GoldDays <= tiers.SilverDays ||
		tiers.SilverDays <= tiers.BronzeDays || tiers.BronzeDays <= 0 {
		return fmt.Errorf("%w: %d/%d/%d/%d",
			ErrBadTierOrder, tiers.PlatinumDays, tiers.GoldDays, tiers.SilverDays, tiers.BronzeDays)
	}

	if policy.Risk.AttendanceFloor <= 0 || policy.Risk.AttendanceFloor > maxAttendancePercent {
		return fmt.Errorf("%w: %.1f", ErrBadAttendanceFloor, policy.Risk.AttendanceFloor)
	}

	weights := []float64{
		policy.Risk.AttendanceWeight, policy.Risk.TrainingWeight,
		policy.Risk.NegativeFeedback, policy.Risk.NeutralFeedback, policy.Risk.PerUnauthorized,
	}
	for _, weight := range weights {
		if weight < 0 {
			return fmt.Errorf("%w: %.1f", ErrBadRiskWeight, weight)
		}
	}

	if policy.Tenure.EarlyDays <= 0 || policy.Tenure.PostAssignmentDays <= 0 || policy.Tenure.LongTermDays <= 0 {
		return ErrBadTenureThreshold
	}

	return nil
}
