package api_test

import (
	"testing"
	"time"

	"lacquer/internal/api"
	"lacquer/internal/capture"
)

func TestFromSessionUsesExternalID(t *testing.T) {
	confidence := 0.95
	session := &capture.Session{
		ID:                 42,
		ExternalID:         "abc-123",
		UserID:             "ada",
		Status:             capture.StatusMatched,
		TopConfidence:      &confidence,
		AcceptedEntityType: "shade",
		AcceptedEntityID:   7,
		Revision:           3,
		CreatedAt:          time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	got := api.FromSession(session)
	if got.ID != "abc-123" {
		t.Fatalf("id = %q, database row id must not leak", got.ID)
	}
	if got.TopConfidence == nil || *got.TopConfidence != 0.95 {
		t.Fatalf("topConfidence = %v", got.TopConfidence)
	}
	if got.CreatedAt != "2026-08-01T12:00:00Z" {
		t.Fatalf("createdAt = %q", got.CreatedAt)
	}
}

func TestFromViewOrdersFramesOldestFirst(t *testing.T) {
	view := &capture.SessionView{
		Session: &capture.Session{ExternalID: "abc"},
		Frames: []*capture.Frame{
			{ID: 2, FrameType: capture.FrameLabel},
			{ID: 1, FrameType: capture.FrameBarcode},
		},
	}
	detail := api.FromView(view)
	if len(detail.Frames) != 2 || detail.Frames[0].ID != 1 || detail.Frames[1].ID != 2 {
		t.Fatalf("frames = %+v, want capture order", detail.Frames)
	}
}

func TestFromFrameDropsInvalidEvidence(t *testing.T) {
	frame := &capture.Frame{ID: 1, FrameType: capture.FrameLabel, EvidenceJSON: "not json"}
	if got := api.FromFrame(frame); got.Evidence != nil {
		t.Fatalf("evidence = %s, want omitted", got.Evidence)
	}
}
