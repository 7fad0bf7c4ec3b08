package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetOrComputeCachesWithinTTL(t *testing.T) {
	cache := NewVerdictCache(time.Minute)

	computed := 0
	compute := func() Verdict {
		computed++
		return Verdict{Action: ActionApproved, Scores: map[string]float64{"TOXICITY": 0.1}}
	}

	first := cache.GetOrCompute("The Tacos Were Cold", compute)
	second := cache.GetOrCompute("The Tacos Were Cold", compute)

	assert.Equal(t, 1, computed)
	assert.Equal(t, first, second)
}

func TestGetOrComputeNormalizesText(t *testing.T) {
	cache := NewVerdictCache(time.Minute)

	computed := 0
	compute := func() Verdict {
		computed++
		return Verdict{Action: ActionApproved}
	}

	cache.GetOrCompute("  Great Pizza  ", compute)
	cache.GetOrCompute("great pizza", compute)

	assert.Equal(t, 1, computed)
}

func TestGetOrComputeRecomputesAfterTTL(t *testing.T) {
	cache := NewVerdictCache(10 * time.Millisecond)

	computed := 0
	compute := func() Verdict {
		computed++
		return Verdict{Action: ActionShadowed}
	}

	cache.GetOrCompute("stale text", compute)
	time.Sleep(20 * time.Millisecond)
	cache.GetOrCompute("stale text", compute)

	assert.Equal(t, 2, computed)
}

func TestSweepEvictsExpiredEntries(t *testing.T) {
	cache := NewVerdictCache(10 * time.Millisecond)
	cache.sweepSize = 5

	compute := func() Verdict { return Verdict{Action: ActionApproved} }

	for i := 0; i < 5; i++ {
		cache.GetOrCompute(string(rune('a'+i)), compute)
	}
	assert.Equal(t, 5, cache.Len())

	time.Sleep(20 * time.Millisecond)

	// Crossing the size threshold triggers a full sweep of expired entries
	cache.GetOrCompute("fresh", compute)
	assert.Equal(t, 1, cache.Len())
}

func TestDistinctTextsComputeSeparately(t *testing.T) {
	cache := NewVerdictCache(time.Minute)

	computed := 0
	compute := func() Verdict {
		computed++
		return Verdict{Action: ActionApproved}
	}

	cache.GetOrCompute("first", compute)
	cache.GetOrCompute("second", compute)

	assert.Equal(t, 2, computed)
}
