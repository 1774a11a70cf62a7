package models

// Subscriber is a single email digest recipient.
type Subscriber struct {
	Email string `json:"email"`
	City  string `json:"city"`
}
