package dispatch

import "estate-workers/internal/models"

// Outcome is the result of one push send.
type Outcome struct {
	RecipientID string
	Token       string
	Err         error
}

func (o Outcome) Delivered() bool {
	return o.Err == nil
}

// Result describes one dispatch run. It is informational: dispatch failures
// are recorded on the notification record, never returned as errors.
type Result struct {
	NotificationID string
	Status         models.NotificationStatus
	Error          string

	Eligible int
	Rejected int
	Outcomes []Outcome

	SuccessCount   int
	FailureCount   int
	EmailSentCount int
	SMSSentCount   int
}

// Failed returns the outcomes of the sends that were rejected.
func (r *Result) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Delivered() {
			out = append(out, o)
		}
	}
	return out
}
