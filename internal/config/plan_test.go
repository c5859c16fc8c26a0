package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPlan(t *testing.T) {
	plan := DefaultPlan()
	assert.Equal(t, 4, plan.Workers)
	assert.Equal(t, "isolated", plan.Mode)
	assert.Equal(t, 10, plan.Repetitions)
	require.NoError(t, NewValidator().Validate(plan))
}

func TestParsePlan_PartialOverridesKeepDefaults(t *testing.T) {
	plan, err := ParsePlan([]byte("workers: 8\nmode: shared\n"))
	require.NoError(t, err)

	assert.Equal(t, 8, plan.Workers)
	assert.Equal(t, "shared", plan.Mode)
	// 未出现的字段保持默认值
	assert.Equal(t, 10, plan.Repetitions)
	assert.Equal(t, 10000, plan.Items)
}

func TestParsePlan_Invalid(t *testing.T) {
	_, err := ParsePlan([]byte("workers: [not, a, number]"))
	assert.Error(t, err)
}

func TestValidator_RejectsBadPlan(t *testing.T) {
	plan := &Plan{
		Workers:     0,
		Mode:        "forked",
		Repetitions: -1,
		Items:       -5,
		Strategies:  []string{"static", "speculative"},
		Logging:     LoggingConfig{Level: "loud"},
	}

	err := NewValidator().Validate(plan)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 6)
}

func TestValidator_AcceptsStrategySubset(t *testing.T) {
	plan := DefaultPlan()
	plan.Strategies = []string{"sequential", "dynamic"}
	assert.NoError(t, NewValidator().Validate(plan))
}

func TestPlan_Clone(t *testing.T) {
	plan := DefaultPlan()
	plan.Strategies = []string{"static"}

	dup := plan.Clone()
	dup.Workers = 99
	dup.Strategies[0] = "dynamic"

	assert.Equal(t, 4, plan.Workers)
	assert.Equal(t, "static", plan.Strategies[0])
}
