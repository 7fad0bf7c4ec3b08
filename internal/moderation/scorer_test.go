package moderation

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakePerspective returns a handler serving a fixed set of category scores in
// the Perspective response shape.
func fakePerspective(t *testing.T, scores map[string]float64, calls *int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"attributeScores":{`)
		first := true
		for category, score := range scores {
			if !first {
				fmt.Fprint(w, ",")
			}
			first = false
			fmt.Fprintf(w, `%q:{"summaryScore":{"value":%f}}`, category, score)
		}
		fmt.Fprint(w, `}}`)
	}
}

func TestScoreEmptyTextSkipsAPICall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(fakePerspective(t, nil, &calls))
	defer srv.Close()

	scorer := NewScorer(srv.URL, "test-key", time.Second)

	for _, text := range []string{"", "   ", "\n\t"} {
		verdict := scorer.Score(context.Background(), text)
		assert.Equal(t, ActionApproved, verdict.Action)
		assert.Empty(t, verdict.Scores)
	}
	assert.Equal(t, 0, calls)
}

func TestScoreRejectsAboveThreshold(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(fakePerspective(t, map[string]float64{
		"TOXICITY": 0.40,
		"THREAT":   0.90,
	}, &calls))
	defer srv.Close()

	scorer := NewScorer(srv.URL, "test-key", time.Second)
	verdict := scorer.Score(context.Background(), "some hostile text")

	assert.Equal(t, ActionRejected, verdict.Action)
	assert.Contains(t, verdict.Reason, "THREAT")
	assert.Contains(t, verdict.Reason, "90%")
	assert.InDelta(t, 0.90, verdict.Scores["THREAT"], 0.001)
}

func TestScoreShadowsMidRange(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(fakePerspective(t, map[string]float64{
		"INSULT": 0.75,
	}, &calls))
	defer srv.Close()

	scorer := NewScorer(srv.URL, "test-key", time.Second)
	verdict := scorer.Score(context.Background(), "borderline text")

	assert.Equal(t, ActionShadowed, verdict.Action)
	assert.Contains(t, verdict.Reason, "INSULT")
	assert.Contains(t, verdict.Reason, "manual review")
}

func TestScoreApprovesBelowThreshold(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(fakePerspective(t, map[string]float64{
		"TOXICITY":  0.10,
		"PROFANITY": 0.05,
	}, &calls))
	defer srv.Close()

	scorer := NewScorer(srv.URL, "test-key", time.Second)
	verdict := scorer.Score(context.Background(), "the pasta was great")

	assert.Equal(t, ActionApproved, verdict.Action)
	assert.Empty(t, verdict.Reason)
	assert.Equal(t, 1, calls)
}

func TestScoreHTTPErrorFallsBackToShadowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	scorer := NewScorer(srv.URL, "test-key", time.Second)
	verdict := scorer.Score(context.Background(), "anything")

	assert.Equal(t, ActionShadowed, verdict.Action)
	assert.Empty(t, verdict.Scores)
	assert.Contains(t, verdict.Reason, "API error")
}

func TestScoreNetworkErrorFallsBackToShadowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	scorer := NewScorer(srv.URL, "test-key", time.Second)
	verdict := scorer.Score(context.Background(), "anything")

	assert.Equal(t, ActionShadowed, verdict.Action)
	assert.Empty(t, verdict.Scores)
	assert.Contains(t, verdict.Reason, "API error")
}

func TestVerdictFromScoresBoundaries(t *testing.T) {
	cases := []struct {
		name   string
		score  float64
		action Action
	}{
		{"at reject threshold", 0.85, ActionRejected},
		{"just below reject", 0.849, ActionShadowed},
		{"at shadow threshold", 0.60, ActionShadowed},
		{"just below shadow", 0.599, ActionApproved},
		{"zero", 0, ActionApproved},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict := verdictFromScores(map[string]float64{"TOXICITY": tc.score})
			assert.Equal(t, tc.action, verdict.Action)
		})
	}
}

func TestVerdictRejectedForAnyCategory(t *testing.T) {
	// The max rule applies regardless of which category is highest
	for _, category := range requestedCategories {
		verdict := verdictFromScores(map[string]float64{category: 0.95})
		assert.Equal(t, ActionRejected, verdict.Action, category)
		assert.Contains(t, verdict.Reason, category)
	}
}
