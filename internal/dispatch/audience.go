package dispatch

import (
	"strings"

	"estate-workers/internal/models"
)

// TestTokenPrefix marks device tokens registered by test builds of the app.
const TestTokenPrefix = "test_"

// EligibleToken is a format heuristic that rejects obviously malformed device
// tokens. It does not prove the token is registered.
func EligibleToken(token string) bool {
	if len(token) <= 10 {
		return false
	}
	return strings.Contains(token, ":") || strings.HasPrefix(token, TestTokenPrefix)
}

// InScope reports whether r belongs to the audience of target.
func InScope(r models.Recipient, target string) bool {
	if r.Token == "" || !models.IsKnownTarget(target) {
		return false
	}
	if target == models.TargetAllUsers {
		return true
	}
	return r.SubscribedTo(target)
}

// splitEligible partitions in-scope candidates by the token gate.
func splitEligible(candidates []models.Recipient, target string) (eligible, rejected []models.Recipient) {
	for _, r := range candidates {
		if !InScope(r, target) {
			continue
		}
		if EligibleToken(r.Token) {
			eligible = append(eligible, r)
		} else {
			rejected = append(rejected, r)
		}
	}
	return eligible, rejected
}

// maskToken keeps enough of a token to correlate log lines.
func maskToken(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
