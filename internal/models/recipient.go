// internal/models/recipient.go
package models

// Recipient is an app user reachable by push and optionally by email or SMS.
type Recipient struct {
	ID     string   `json:"id"`
	Token  string   `json:"fcmToken"`
	Email  string   `json:"email,omitempty"`
	Phone  string   `json:"phoneNumber,omitempty"`
	Topics []string `json:"subscribedTopics"`
}

func (r Recipient) SubscribedTo(topic string) bool {
	for _, t := range r.Topics {
		if t == topic {
			return true
		}
	}
	return false
}
