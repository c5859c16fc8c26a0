// Package config property tests.
// Property: serializing any valid plan and parsing it back produces an
// equivalent plan.
package config

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// plansEqual compares plans, treating nil and empty strategy lists alike.
func plansEqual(a, b *Plan) bool {
	if a.Workers != b.Workers || a.Mode != b.Mode ||
		a.Repetitions != b.Repetitions || a.Items != b.Items ||
		a.Logging != b.Logging {
		return false
	}
	if len(a.Strategies) != len(b.Strategies) {
		return false
	}
	for i := range a.Strategies {
		if a.Strategies[i] != b.Strategies[i] {
			return false
		}
	}
	return true
}

func genPlan() gopter.Gen {
	modes := []string{"isolated", "shared"}
	levels := []string{"debug", "info", "warn", "error"}
	names := []string{"sequential", "static", "dynamic", "shared"}

	return gopter.CombineGens(
		gen.IntRange(1, 64),
		gen.IntRange(0, 1),
		gen.IntRange(1, 1000),
		gen.IntRange(0, 1000000),
		gen.IntRange(0, 15),
		gen.IntRange(0, 3),
	).Map(func(vals []interface{}) *Plan {
		var strategies []string
		mask := vals[4].(int)
		for i, name := range names {
			if mask&(1<<i) != 0 {
				strategies = append(strategies, name)
			}
		}

		return &Plan{
			Workers:     vals[0].(int),
			Mode:        modes[vals[1].(int)],
			Repetitions: vals[2].(int),
			Items:       vals[3].(int),
			Strategies:  strategies,
			Logging:     LoggingConfig{Level: levels[vals[5].(int)]},
		}
	})
}

func TestPlanRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("plan round-trip preserves data", prop.ForAll(
		func(plan *Plan) bool {
			data, err := plan.Serialize()
			if err != nil {
				return false
			}
			parsed, err := ParsePlan(data)
			if err != nil {
				return false
			}
			return plansEqual(plan, parsed)
		},
		genPlan(),
	))

	properties.Property("generated plans validate", prop.ForAll(
		func(plan *Plan) bool {
			return NewValidator().Validate(plan) == nil
		},
		genPlan(),
	))

	properties.TestingRun(t)
}
