package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/qualis/internal/scoringconfig"
)

func TestScoreAtLeast(t *testing.T) {
	bands := []scoringconfig.Band{
		{Limit: 0.20, Score: 10},
		{Limit: 0.10, Score: 8},
		{Limit: 0.05, Score: 6},
		{Limit: 0, Score: 2},
	}

	tests := []struct {
		value float64
		want  float64
	}{
		{0.25, 10},
		{0.20, 10}, // boundary is inclusive
		{0.19, 8},
		{0.10, 8},
		{0.05, 6},
		{0.01, 2},
		{0.0, 2},
		{-0.10, 2}, // fallback band
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreAtLeast(bands, tt.value), "value %v", tt.value)
	}
}

func TestScoreAtMost(t *testing.T) {
	bands := []scoringconfig.Band{
		{Limit: 0.30, Score: 10},
		{Limit: 1.00, Score: 6},
		{Limit: 2.00, Score: 3},
		{Limit: 0, Score: 1},
	}

	tests := []struct {
		value float64
		want  float64
	}{
		{0.10, 10},
		{0.30, 10}, // boundary is inclusive
		{0.50, 6},
		{1.00, 6},
		{1.50, 3},
		{2.00, 3},
		{2.50, 1}, // fallback band
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreAtMost(bands, tt.value), "value %v", tt.value)
	}
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 7.3, round1(7.25))
	assert.Equal(t, 7.2, round1(7.24))
	assert.Equal(t, 0.0, round1(0.04))
	assert.Equal(t, 10.0, round1(9.96))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(-1.2))
	assert.Equal(t, 10.0, clampScore(11.5))
	assert.Equal(t, 5.5, clampScore(5.5))
}
