package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrpulse/hrpulse/pkg/config"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	policy := config.Default()

	require.NoError(t, config.Validate(policy))
}

func TestMonthNames_Resolve(t *testing.T) {
	t.Parallel()

	names := config.DefaultMonthNames()

	month, ok := names.Resolve("September")
	require.True(t, ok)
	assert.Equal(t, time.September, month)

	month, ok = names.Resolve("  SEPT ")
	require.True(t, ok)
	assert.Equal(t, time.September, month)

	_, ok = names.Resolve("brumaire")
	assert.False(t, ok)
}

func TestVocabulary_KnownPosition(t *testing.T) {
	t.Parallel()

	vocab := config.Default().Vocab

	assert.True(t, vocab.KnownPosition("operator"))
	assert.True(t, vocab.KnownPosition("Team Lead"))
	assert.False(t, vocab.KnownPosition("Wizard"))
}

func TestVocabulary_CanonicalTeam(t *testing.T) {
	t.Parallel()

	vocab := config.Default().Vocab

	canonical, synonym := vocab.CanonicalTeam("qa")
	assert.True(t, synonym)
	assert.Equal(t, "Quality", canonical)

	canonical, synonym = vocab.CanonicalTeam("Quality")
	assert.False(t, synonym)
	assert.Equal(t, "Quality", canonical)
}

func TestValidate_TierOrder(t *testing.T) {
	t.Parallel()

	policy := config.Default()
	policy.Tiers.GoldDays = policy.Tiers.PlatinumDays

	require.ErrorIs(t, config.Validate(policy), config.ErrBadTierOrder)
}

func TestValidate_NegativeRiskWeight(t *testing.T) {
	t.Parallel()

	policy := config.Default()
	policy.Risk.PerUnauthorized = -1

	require.ErrorIs(t, config.Validate(policy), config.ErrBadRiskWeight)
}

func TestValidate_AttendanceFloor(t *testing.T) {
	t.Parallel()

	policy := config.Default()
	policy.Risk.AttendanceFloor = 120

	require.ErrorIs(t, config.Validate(policy), config.ErrBadAttendanceFloor)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	policy, err := config.Load(filepath.Join(t.TempDir(), "hrpulse.yaml"))
	if err != nil {
		// Viper reports a missing explicit file as a read error; the
		// default search path variant must still succeed.
		policy, err = config.Load("")
	}

	require.NoError(t, err)
	assert.NotEmpty(t, policy.Months)
}

func TestLoad_FileOverridesTenure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "hrpulse.yaml")

	content := "tenure:\n  early_days: 45\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	policy, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 45, policy.Tenure.EarlyDays)
	// Unset fields keep defaults.
	assert.Equal(t, config.Default().Tenure.LongTermDays, policy.Tenure.LongTermDays)
}
