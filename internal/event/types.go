package event

import (
	"encoding/json"
	"time"
)

const (
	TestSubmitted  = "funnel.test.submitted"
	EmailSubmitted = "funnel.email.submitted"
)

// Envelope is the JSON body of every published message.
type Envelope struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TestSubmittedPayload carries the submitted values verbatim.
type TestSubmittedPayload struct {
	TestID         string          `json:"test_id"`
	Score          json.RawMessage `json:"score"`
	CorrectAnswers json.RawMessage `json:"correct_answers"`
	TotalQuestions json.RawMessage `json:"total_questions"`
	TimeUsed       json.RawMessage `json:"time_used"`
}

// EmailSubmittedPayload is sent for every email submission. Score is the
// stored score of the matched attempt and stays null when nothing matched.
type EmailSubmittedPayload struct {
	TestID  string          `json:"test_id"`
	Matched bool            `json:"matched"`
	Score   json.RawMessage `json:"score"`
}
