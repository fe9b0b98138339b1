package capture_test

import (
	"testing"

	"lacquer/internal/capture"
	"lacquer/internal/catalog"
)

var testThresholds = capture.Thresholds{Match: 0.92, Suggest: 0.75, MaxCandidates: 5}

func TestDecideNoEvidenceAsksForFrame(t *testing.T) {
	outcome := capture.Decide(capture.Snapshot{}, 0, nil, nil, testThresholds)
	if outcome.Status != capture.StatusNeedsQuestion {
		t.Fatalf("status = %q", outcome.Status)
	}
	if outcome.Question == nil || outcome.Question.Key != capture.QuestionCaptureFrame {
		t.Fatalf("expected capture_frame question, got %+v", outcome.Question)
	}
	if outcome.Rule != capture.RuleNoEvidence || outcome.Confidence != 0 {
		t.Fatalf("rule = %q, confidence = %v", outcome.Rule, outcome.Confidence)
	}
}

func TestDecideBarcodeBeatsFuzzy(t *testing.T) {
	snap := capture.Snapshot{GTIN: "0094100003641", ShadeName: "completely wrong"}
	exact := &catalog.BarcodeMatch{ShadeID: 7, GTIN: snap.GTIN, Display: "Essie — Ballet Slippers"}
	candidates := []catalog.Candidate{{ShadeID: 9, Display: "other", Confidence: 0.99}}

	outcome := capture.Decide(snap, 1, exact, candidates, testThresholds)
	if outcome.Status != capture.StatusMatched || outcome.EntityID != 7 {
		t.Fatalf("expected barcode match of shade 7, got %+v", outcome)
	}
	if outcome.Confidence != 1.0 || outcome.Rule != capture.RuleBarcodeExact {
		t.Fatalf("confidence = %v, rule = %q", outcome.Confidence, outcome.Rule)
	}
}

func TestDecideConfidenceBands(t *testing.T) {
	snap := capture.Snapshot{Brand: "OPI", ShadeName: "Bubble Bath"}
	cases := []struct {
		name       string
		confidence float64
		status     capture.Status
		rule       string
	}{
		{"at match threshold", 0.92, capture.StatusMatched, capture.RuleFuzzyConfident},
		{"above match threshold", 0.97, capture.StatusMatched, capture.RuleFuzzyConfident},
		{"suggest band", 0.80, capture.StatusNeedsQuestion, capture.RuleFuzzyAmbiguous},
		{"at suggest threshold", 0.75, capture.StatusNeedsQuestion, capture.RuleFuzzyAmbiguous},
		{"below suggest", 0.50, capture.StatusUnmatched, capture.RuleNoConfidentMatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidates := []catalog.Candidate{{ShadeID: 3, Display: "OPI — Bubble Bath", Confidence: tc.confidence}}
			outcome := capture.Decide(snap, 1, nil, candidates, testThresholds)
			if outcome.Status != tc.status || outcome.Rule != tc.rule {
				t.Fatalf("status = %q rule = %q, want %q/%q", outcome.Status, outcome.Rule, tc.status, tc.rule)
			}
			if outcome.Confidence != tc.confidence {
				t.Fatalf("confidence = %v, want %v", outcome.Confidence, tc.confidence)
			}
		})
	}
}

func TestDecideAmbiguousQuestionListsCandidatesPlusSkip(t *testing.T) {
	snap := capture.Snapshot{Brand: "OPI", ShadeName: "Buble Bath"}
	candidates := []catalog.Candidate{
		{ShadeID: 3, Display: "OPI — Bubble Bath", Confidence: 0.90},
		{ShadeID: 4, Display: "OPI — Bubble Bath Gel", Confidence: 0.81},
	}
	outcome := capture.Decide(snap, 1, nil, candidates, testThresholds)
	if outcome.Question == nil || outcome.Question.Key != capture.QuestionCandidateSelect {
		t.Fatalf("expected candidate_select question, got %+v", outcome.Question)
	}
	options := outcome.Question.Options
	if len(options) != 3 {
		t.Fatalf("options = %v, want two candidates plus skip", options)
	}
	if options[0] != "3: OPI — Bubble Bath" || options[1] != "4: OPI — Bubble Bath Gel" {
		t.Fatalf("unexpected candidate options: %v", options)
	}
	if options[2] != capture.SkipSentinel {
		t.Fatalf("last option = %q, want skip", options[2])
	}
}

func TestDecideIncompleteEvidenceAsksBrandShade(t *testing.T) {
	snap := capture.Snapshot{Brand: "OPI"}
	candidates := []catalog.Candidate{{ShadeID: 3, Display: "OPI — Bubble Bath", Confidence: 0.40}}
	outcome := capture.Decide(snap, 1, nil, candidates, testThresholds)
	if outcome.Status != capture.StatusNeedsQuestion {
		t.Fatalf("status = %q", outcome.Status)
	}
	if outcome.Question == nil || outcome.Question.Key != capture.QuestionBrandShade {
		t.Fatalf("expected brand_shade question, got %+v", outcome.Question)
	}
	if outcome.Rule != capture.RuleEvidenceIncomplete {
		t.Fatalf("rule = %q", outcome.Rule)
	}
}

func TestDecideCompleteEvidenceWithoutMatchIsUnmatched(t *testing.T) {
	snap := capture.Snapshot{Brand: "OPI", ShadeName: "Nonexistent Shade"}
	outcome := capture.Decide(snap, 2, nil, nil, testThresholds)
	if outcome.Status != capture.StatusUnmatched || outcome.Rule != capture.RuleNoConfidentMatch {
		t.Fatalf("outcome = %+v", outcome)
	}
	if outcome.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0 with no candidates", outcome.Confidence)
	}
}
