package api

import (
	"encoding/json"
	"time"

	"lacquer/internal/capture"
	"lacquer/internal/catalog"
	"lacquer/internal/inventory"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// FromSession converts a capture session to its API shape.
func FromSession(session *capture.Session) Session {
	if session == nil {
		return Session{}
	}
	return Session{
		ID:                 session.ExternalID,
		UserID:             session.UserID,
		Status:             string(session.Status),
		TopConfidence:      session.TopConfidence,
		AcceptedEntityType: session.AcceptedEntityType,
		AcceptedEntityID:   session.AcceptedEntityID,
		Revision:           session.Revision,
		CreatedAt:          formatTime(session.CreatedAt),
		UpdatedAt:          formatTime(session.UpdatedAt),
	}
}

// FromFrame converts an evidence frame to its API shape.
func FromFrame(frame *capture.Frame) Frame {
	if frame == nil {
		return Frame{}
	}
	out := Frame{
		ID:        frame.ID,
		FrameType: string(frame.FrameType),
		ImageRef:  frame.ImageRef,
		CreatedAt: formatTime(frame.CreatedAt),
	}
	if frame.EvidenceJSON != "" && json.Valid([]byte(frame.EvidenceJSON)) {
		out.Evidence = json.RawMessage(frame.EvidenceJSON)
	}
	return out
}

// FromQuestion converts a question to its API shape.
func FromQuestion(question *capture.Question) *Question {
	if question == nil {
		return nil
	}
	return &Question{
		ID:      question.ID,
		Key:     string(question.Key),
		Prompt:  question.Prompt,
		Type:    string(question.Type),
		Options: question.Options,
		Status:  string(question.Status),
	}
}

// FromDecision converts an audit-log entry to its API shape.
func FromDecision(decision *capture.Decision) Decision {
	if decision == nil {
		return Decision{}
	}
	out := Decision{
		ID:        decision.ID,
		Rule:      decision.Rule,
		CreatedAt: formatTime(decision.CreatedAt),
	}
	if decision.DetailJSON != "" && json.Valid([]byte(decision.DetailJSON)) {
		out.Detail = json.RawMessage(decision.DetailJSON)
	}
	return out
}

// FromView converts a full session projection to its API shape.
func FromView(view *capture.SessionView) SessionDetail {
	if view == nil {
		return SessionDetail{}
	}
	detail := SessionDetail{
		Session:  FromSession(view.Session),
		Frames:   make([]Frame, 0, len(view.Frames)),
		Question: FromQuestion(view.Question),
	}
	// frames arrive newest first; present them in capture order
	for i := len(view.Frames) - 1; i >= 0; i-- {
		detail.Frames = append(detail.Frames, FromFrame(view.Frames[i]))
	}
	for _, decision := range view.Decisions {
		detail.Decisions = append(detail.Decisions, FromDecision(decision))
	}
	return detail
}

// FromInventoryItem converts an inventory row to its API shape.
func FromInventoryItem(item *inventory.Item) InventoryItem {
	if item == nil {
		return InventoryItem{}
	}
	return InventoryItem{
		ID:        item.ID,
		ShadeID:   item.ShadeID,
		Brand:     item.Brand,
		ShadeName: item.ShadeName,
		Finish:    item.Finish,
		Quantity:  item.Quantity,
		Note:      item.Note,
		UpdatedAt: formatTime(item.UpdatedAt),
	}
}

// FromCandidates converts ranked catalog matches to their API shape.
func FromCandidates(candidates []catalog.Candidate) []Candidate {
	if len(candidates) == 0 {
		return nil
	}
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Candidate{
			ShadeID:    c.ShadeID,
			Display:    c.Display,
			Confidence: c.Confidence,
		})
	}
	return out
}
