package capture_test

import (
	"testing"

	"lacquer/internal/capture"
)

func TestParseBrandShade(t *testing.T) {
	cases := []struct {
		raw   string
		brand string
		shade string
	}{
		{"Orly - Rage", "Orly", "Rage"},
		{"OPI — Bubble Bath", "OPI", "Bubble Bath"},
		{"Essie | Ballet Slippers", "Essie", "Ballet Slippers"},
		{"China Glaze, Ruby Pumps", "China Glaze", "Ruby Pumps"},
		{"OPI - Big Apple - Red", "OPI", "Big Apple Red"},
		{"Bubble Bath", "", "Bubble Bath"},
		{"  Bubble Bath  ", "", "Bubble Bath"},
		{"", "", ""},
	}
	for _, tc := range cases {
		got := capture.ParseBrandShade(tc.raw)
		if got.Brand != tc.brand || got.ShadeName != tc.shade {
			t.Errorf("ParseBrandShade(%q) = %+v, want {%q %q}", tc.raw, got, tc.brand, tc.shade)
		}
	}
}

func TestIsSkip(t *testing.T) {
	if !capture.IsSkip("skip") || !capture.IsSkip("  SKIP ") {
		t.Fatal("skip sentinel not recognized")
	}
	if capture.IsSkip("3: OPI — Bubble Bath") || capture.IsSkip(3) || capture.IsSkip(nil) {
		t.Fatal("non-skip value treated as skip")
	}
}

func TestExtractEntityID(t *testing.T) {
	cases := []struct {
		value any
		id    int64
		ok    bool
	}{
		{float64(12), 12, true},
		{"12", 12, true},
		{" 12: OPI — Bubble Bath", 12, true},
		{map[string]any{"shadeId": float64(7)}, 7, true},
		{map[string]any{"shadeId": "7"}, 7, true},
		{"skip", 0, false},
		{"not a number", 0, false},
		{float64(0), 0, false},
		{float64(1.5), 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		id, ok := capture.ExtractEntityID(tc.value)
		if ok != tc.ok || (ok && id != tc.id) {
			t.Errorf("ExtractEntityID(%v) = (%d, %v), want (%d, %v)", tc.value, id, ok, tc.id, tc.ok)
		}
	}
}

func TestNormalizeAnswerBrandShade(t *testing.T) {
	normalized := capture.NormalizeAnswer(capture.QuestionBrandShade, "Orly - Rage")
	if normalized["brand"] != "Orly" || normalized["shadeName"] != "Rage" {
		t.Fatalf("normalized = %v", normalized)
	}

	structured := capture.NormalizeAnswer(capture.QuestionBrandShade, map[string]any{
		"brand":     " Essie ",
		"shadeName": "Ballet Slippers",
		"finish":    "sheer",
		"junk":      "dropped",
	})
	if structured["brand"] != "Essie" || structured["shadeName"] != "Ballet Slippers" || structured["finish"] != "sheer" {
		t.Fatalf("structured = %v", structured)
	}
	if _, ok := structured["junk"]; ok {
		t.Fatalf("unknown keys must be dropped: %v", structured)
	}
}

func TestNormalizeAnswerCandidateSelect(t *testing.T) {
	normalized := capture.NormalizeAnswer(capture.QuestionCandidateSelect, "12: OPI — Bubble Bath")
	if normalized["shadeId"] != int64(12) {
		t.Fatalf("normalized = %v", normalized)
	}
	skipped := capture.NormalizeAnswer(capture.QuestionCandidateSelect, "skip")
	if skipped["skipped"] != true {
		t.Fatalf("skipped normalized = %v", skipped)
	}
}
