// Package moderation holds the content-moderation leaves of the review
// pipeline: device identity hashing, the external toxicity scorer, and the
// process-local verdict cache.
package moderation

// Action is the three-way outcome of scoring a piece of text.
type Action string

const (
	// ActionApproved means the content is publishable immediately.
	ActionApproved Action = "approved"
	// ActionShadowed means the content is withheld from public view until a
	// human reviews it.
	ActionShadowed Action = "shadowed"
	// ActionRejected means the content is refused outright.
	ActionRejected Action = "rejected"
)

// Verdict is the output of the toxicity scorer: an action plus the category
// scores that produced it and a human-readable reason. Immutable once
// produced within its cache window.
type Verdict struct {
	Action Action             `json:"action"`
	Scores map[string]float64 `json:"scores"`
	Reason string             `json:"reason"`
}
