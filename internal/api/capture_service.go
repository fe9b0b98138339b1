package api

import (
	"context"
	"strings"

	"lacquer/internal/capture"
)

// CaptureService exposes engine operations returning API DTOs.
type CaptureService struct {
	engine *capture.Engine
}

// NewCaptureService constructs a CaptureService around the engine.
func NewCaptureService(engine *capture.Engine) *CaptureService {
	if engine == nil {
		return nil
	}
	return &CaptureService{engine: engine}
}

// Start opens a new capture session.
func (s *CaptureService) Start(ctx context.Context, req StartSessionRequest) (Session, error) {
	session, err := s.engine.Start(ctx, req.UserID, req.Hints)
	if err != nil {
		return Session{}, err
	}
	return FromSession(session), nil
}

// AddFrame attaches an evidence frame.
func (s *CaptureService) AddFrame(ctx context.Context, sessionID string, req AddFrameRequest) (Frame, error) {
	if strings.TrimSpace(req.FrameType) == "" {
		return Frame{}, capture.Wrap(capture.ErrValidation, "api", "add frame", "frameType is required", nil)
	}
	frame, err := s.engine.AddFrame(ctx, sessionID, req.FrameType, req.ImageRef, string(req.Evidence))
	if err != nil {
		return Frame{}, err
	}
	return FromFrame(frame), nil
}

// Finalize re-evaluates the session's evidence.
func (s *CaptureService) Finalize(ctx context.Context, sessionID string) (SessionDetail, error) {
	view, err := s.engine.Finalize(ctx, sessionID)
	if err != nil {
		return SessionDetail{}, err
	}
	return FromView(view), nil
}

// Answer responds to the session's open question.
func (s *CaptureService) Answer(ctx context.Context, sessionID string, req AnswerRequest) (SessionDetail, error) {
	if req.Value == nil {
		return SessionDetail{}, capture.Wrap(capture.ErrValidation, "api", "answer", "value is required", nil)
	}
	view, err := s.engine.Answer(ctx, sessionID, req.QuestionID, req.Value, req.AnsweredBy)
	if err != nil {
		return SessionDetail{}, err
	}
	return FromView(view), nil
}

// Describe returns the session's full projection.
func (s *CaptureService) Describe(ctx context.Context, sessionID string) (SessionDetail, error) {
	view, err := s.engine.Status(ctx, sessionID)
	if err != nil {
		return SessionDetail{}, err
	}
	return FromView(view), nil
}

// Cancel abandons a live session.
func (s *CaptureService) Cancel(ctx context.Context, sessionID string) (Session, error) {
	session, err := s.engine.Cancel(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	return FromSession(session), nil
}
