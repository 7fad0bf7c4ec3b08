package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Categories requested from the classifier on every call.
var requestedCategories = []string{
	"TOXICITY",
	"SEVERE_TOXICITY",
	"IDENTITY_ATTACK",
	"INSULT",
	"PROFANITY",
	"THREAT",
}

const (
	rejectThreshold = 0.85
	shadowThreshold = 0.60
)

// Scorer calls the Perspective comment-analysis API and maps its category
// scores to a Verdict. One attempt per call, bounded by the client timeout;
// retries are left to the next submission.
type Scorer struct {
	client *resty.Client
	apiKey string
}

func NewScorer(baseURL, apiKey string, timeout time.Duration) *Scorer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Scorer{
		client: client,
		apiKey: apiKey,
	}
}

type analyzeRequest struct {
	Comment             analyzeComment      `json:"comment"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
	Languages           []string            `json:"languages"`
	DoNotStore          bool                `json:"doNotStore"`
}

type analyzeComment struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	AttributeScores map[string]attributeScore `json:"attributeScores"`
}

type attributeScore struct {
	SummaryScore struct {
		Value float64 `json:"value"`
	} `json:"summaryScore"`
}

// Score classifies the given text. Empty or whitespace-only text is approved
// without an external call. Any failure reaching the classifier (non-2xx,
// network error, timeout) degrades to a Shadowed verdict with empty scores so
// the submission is queued for manual review instead of being approved or
// dropped.
func (s *Scorer) Score(ctx context.Context, text string) Verdict {
	if strings.TrimSpace(text) == "" {
		return Verdict{Action: ActionApproved, Scores: map[string]float64{}}
	}

	attributes := make(map[string]struct{}, len(requestedCategories))
	for _, category := range requestedCategories {
		attributes[category] = struct{}{}
	}

	var result analyzeResponse
	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetBody(analyzeRequest{
			Comment:             analyzeComment{Text: text},
			RequestedAttributes: attributes,
			Languages:           []string{"en"},
			DoNotStore:          true,
		}).
		SetResult(&result).
		Post("/comments:analyze")

	if err != nil || resp.IsError() {
		recordScorerCall(false, time.Since(start))
		return Verdict{
			Action: ActionShadowed,
			Scores: map[string]float64{},
			Reason: "Moderation API error - manual review required",
		}
	}
	recordScorerCall(true, time.Since(start))

	scores := make(map[string]float64, len(requestedCategories))
	for _, category := range requestedCategories {
		// Missing or malformed attributes default to zero
		scores[category] = result.AttributeScores[category].SummaryScore.Value
	}

	return verdictFromScores(scores)
}

// verdictFromScores applies the fixed thresholds to the maximum category
// score. Deterministic for identical inputs.
func verdictFromScores(scores map[string]float64) Verdict {
	maxCategory := ""
	maxScore := 0.0
	for _, category := range requestedCategories {
		if score := scores[category]; score > maxScore {
			maxScore = score
			maxCategory = category
		}
	}

	switch {
	case maxScore >= rejectThreshold:
		return Verdict{
			Action: ActionRejected,
			Scores: scores,
			Reason: fmt.Sprintf("Content flagged for %s (%.0f%%)", maxCategory, maxScore*100),
		}
	case maxScore >= shadowThreshold:
		return Verdict{
			Action: ActionShadowed,
			Scores: scores,
			Reason: fmt.Sprintf("Content flagged for %s (%.0f%%) - manual review required", maxCategory, maxScore*100),
		}
	default:
		return Verdict{Action: ActionApproved, Scores: scores}
	}
}
