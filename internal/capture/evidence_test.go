package capture_test

import (
	"testing"

	"lacquer/internal/capture"
)

func TestExtractFrameFactsPipelinePayload(t *testing.T) {
	payload := `{"ocr":"raw text","extracted":{"brand":"OPI","shadeName":"Bubble Bath","finish":"creme"}}`
	facts := capture.ExtractFrameFacts(payload)
	if facts.Provenance != capture.ProvenancePipeline {
		t.Fatalf("provenance = %q, want pipeline", facts.Provenance)
	}
	if facts.Brand != "OPI" || facts.ShadeName != "Bubble Bath" || facts.Finish != "creme" {
		t.Fatalf("unexpected facts: %+v", facts)
	}
}

func TestExtractFrameFactsLegacyPayload(t *testing.T) {
	facts := capture.ExtractFrameFacts(`{"barcode":"0094100003641","brand":"Essie"}`)
	if facts.Provenance != capture.ProvenanceLegacy {
		t.Fatalf("provenance = %q, want legacy", facts.Provenance)
	}
	if facts.GTIN != "0094100003641" || facts.Brand != "Essie" {
		t.Fatalf("unexpected facts: %+v", facts)
	}
}

func TestExtractFrameFactsPipelineWinsOverLegacy(t *testing.T) {
	payload := `{"brand":"Old Brand","extracted":{"brand":"New Brand"}}`
	facts := capture.ExtractFrameFacts(payload)
	if facts.Brand != "New Brand" || facts.Provenance != capture.ProvenancePipeline {
		t.Fatalf("unexpected facts: %+v", facts)
	}
}

func TestExtractFrameFactsNoEvidence(t *testing.T) {
	for _, payload := range []string{"", "   ", "not json", "{}", `{"extracted":{}}`, `{"unrelated":"x"}`} {
		facts := capture.ExtractFrameFacts(payload)
		if !facts.Empty() || facts.Provenance != capture.ProvenanceNone {
			t.Fatalf("payload %q: expected empty facts, got %+v", payload, facts)
		}
	}
}

func TestAggregateNewestFrameWins(t *testing.T) {
	frames := []*capture.Frame{
		{FrameType: capture.FrameLabel, EvidenceJSON: `{"extracted":{"shadeName":"Second Look"}}`},
		{FrameType: capture.FrameLabel, EvidenceJSON: `{"extracted":{"shadeName":"First Look","brand":"OPI"}}`},
	}
	snap, audit := capture.Aggregate(frames, nil, nil)
	if snap.ShadeName != "Second Look" {
		t.Fatalf("shadeName = %q, want newest frame's value", snap.ShadeName)
	}
	if snap.Brand != "OPI" {
		t.Fatalf("brand = %q, older frame should still fill gaps", snap.Brand)
	}
	if audit.FrameCount != 2 {
		t.Fatalf("frameCount = %d", audit.FrameCount)
	}
}

func TestAggregateAnswerBeatsHintBeatsFrame(t *testing.T) {
	frames := []*capture.Frame{
		{FrameType: capture.FrameLabel, EvidenceJSON: `{"extracted":{"brand":"Frame Brand","finish":"shimmer"}}`},
	}
	answers := map[string]any{
		"brand_shade": map[string]any{"brand": "Answer Brand", "shadeName": "Answer Shade"},
	}
	hints := map[string]any{"brand": "Hint Brand", "finish": "creme"}

	snap, audit := capture.Aggregate(frames, answers, hints)
	if snap.Brand != "Answer Brand" || snap.ShadeName != "Answer Shade" {
		t.Fatalf("answer should win: %+v", snap)
	}
	if snap.Finish != "creme" {
		t.Fatalf("finish = %q, hint should beat frame", snap.Finish)
	}
	if audit.FieldSources["brand"] != "answer:brand_shade" {
		t.Fatalf("brand source = %q", audit.FieldSources["brand"])
	}
	if audit.FieldSources["finish"] != "hint" {
		t.Fatalf("finish source = %q", audit.FieldSources["finish"])
	}
}

func TestAggregateEmpty(t *testing.T) {
	snap, audit := capture.Aggregate(nil, nil, nil)
	if snap.HasTextEvidence() {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
	if audit.HasTextEvidence || audit.FrameCount != 0 {
		t.Fatalf("unexpected audit: %+v", audit)
	}
}
