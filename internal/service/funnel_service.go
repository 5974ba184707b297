package service

import (
	"context"
	"fmt"
	"log/slog"

	"iqtest-service/internal/event"
	"iqtest-service/internal/models"
	"iqtest-service/internal/repository"
)

// Publisher is satisfied by *event.EventPublisher.
type Publisher interface {
	Publish(eventType string, payload interface{}) error
}

// Recorder is satisfied by *metrics.Metrics.
type Recorder interface {
	TestSubmitted()
	EmailSubmitted(matched bool)
}

// FunnelService runs the submission steps of the funnel.
type FunnelService struct {
	Store     repository.SessionStore
	Publisher Publisher
	Recorder  Recorder
	Logger    *slog.Logger
}

// NewFunnelService wires the store with an optional publisher and metrics
// recorder; nil disables either.
func NewFunnelService(store repository.SessionStore, publisher Publisher, recorder Recorder, logger *slog.Logger) *FunnelService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FunnelService{
		Store:     store,
		Publisher: publisher,
		Recorder:  recorder,
		Logger:    logger,
	}
}

// SubmitTest stores the attempt and returns its identifier.
func (s *FunnelService) SubmitTest(ctx context.Context, req models.SubmitTestRequest) (string, error) {
	id, err := s.Store.Create(ctx, req.ToResult())
	if err != nil {
		return "", fmt.Errorf("store test result: %w", err)
	}

	s.Logger.Info("test submitted", "test_id", id)
	if s.Recorder != nil {
		s.Recorder.TestSubmitted()
	}
	s.publish(event.TestSubmitted, event.TestSubmittedPayload{
		TestID:         id,
		Score:          req.Score,
		CorrectAnswers: req.CorrectAnswers,
		TotalQuestions: req.TotalQuestions,
		TimeUsed:       req.TimeUsed,
	})
	return id, nil
}

// SubmitEmail attaches the email to the attempt and reports whether the
// attempt existed. A test_id that is not a JSON string never matches.
func (s *FunnelService) SubmitEmail(ctx context.Context, req models.SubmitEmailRequest) (bool, error) {
	id := req.ID()
	matched, err := s.Store.AttachEmail(ctx, id, req.EmailValue())
	if err != nil {
		return false, fmt.Errorf("attach email to %q: %w", id, err)
	}

	payload := event.EmailSubmittedPayload{TestID: id, Matched: matched}
	if matched {
		record, err := s.Store.Get(ctx, id)
		if err != nil {
			s.Logger.Warn("attached email but could not reload result", "test_id", id, "error", err)
		} else {
			payload.Score = record.Score
			s.Logger.Info("email attached", "test_id", id, "score", string(record.Score))
		}
	} else {
		s.Logger.Debug("email for unknown test ignored", "test_id", string(req.TestID))
	}

	if s.Recorder != nil {
		s.Recorder.EmailSubmitted(matched)
	}
	s.publish(event.EmailSubmitted, payload)
	return matched, nil
}

func (s *FunnelService) publish(eventType string, payload interface{}) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(eventType, payload); err != nil {
		s.Logger.Warn("failed to publish event", "type", eventType, "error", err)
	}
}
