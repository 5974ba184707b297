package models

import (
	"encoding/json"
	"time"
)

// TestResult is one completed quiz attempt. Submitted fields are kept
// exactly as the client sent them, whatever their JSON type; nil means the
// field was absent from the submission.
type TestResult struct {
	ID             string          `json:"id"`
	Score          json.RawMessage `json:"score"`
	CorrectAnswers json.RawMessage `json:"correctAnswers"`
	TotalQuestions json.RawMessage `json:"totalQuestions"`
	TimeUsed       json.RawMessage `json:"timeUsed"`
	Answers        json.RawMessage `json:"answers"`
	CreatedAt      time.Time       `json:"createdAt"`

	Email            json.RawMessage `json:"email,omitempty"`
	EmailSubmittedAt *time.Time      `json:"emailSubmittedAt,omitempty"`
}

type SubmitTestRequest struct {
	Score          json.RawMessage `json:"score"`
	CorrectAnswers json.RawMessage `json:"correctAnswers"`
	TotalQuestions json.RawMessage `json:"totalQuestions"`
	TimeUsed       json.RawMessage `json:"timeUsed"`
	Answers        json.RawMessage `json:"answers"`
}

// ToResult copies the submitted fields into a new, not yet stored, record.
func (r SubmitTestRequest) ToResult() *TestResult {
	return &TestResult{
		Score:          r.Score,
		CorrectAnswers: r.CorrectAnswers,
		TotalQuestions: r.TotalQuestions,
		TimeUsed:       r.TimeUsed,
		Answers:        r.Answers,
	}
}

type SubmitEmailRequest struct {
	Email  json.RawMessage `json:"email"`
	TestID json.RawMessage `json:"test_id"`
}

// ID returns test_id when it was sent as a JSON string, and "" otherwise.
// Stored ids are strings, so any other type can never match.
func (r SubmitEmailRequest) ID() string {
	var id string
	if err := json.Unmarshal(r.TestID, &id); err != nil {
		return ""
	}
	return id
}

// EmailValue returns the email as submitted, or JSON null when absent.
func (r SubmitEmailRequest) EmailValue() json.RawMessage {
	if len(r.Email) == 0 {
		return json.RawMessage("null")
	}
	return r.Email
}

type SubmitTestResponse struct {
	Success  bool   `json:"success"`
	TestID   string `json:"test_id"`
	Redirect string `json:"redirect"`
}

type SubmitEmailResponse struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect"`
}
