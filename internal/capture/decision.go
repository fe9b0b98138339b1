package capture

import (
	"lacquer/internal/catalog"
)

// Decision-engine rule names recorded in the audit log.
const (
	RuleNoEvidence         = "no_evidence"
	RuleBarcodeExact       = "barcode_exact"
	RuleFuzzyConfident     = "fuzzy_confident"
	RuleFuzzyAmbiguous     = "fuzzy_ambiguous"
	RuleEvidenceIncomplete = "evidence_incomplete"
	RuleNoConfidentMatch   = "no_confident_match"
	RuleCandidateSelected  = "candidate_selected"
	RuleCancelled          = "cancelled"
)

// Thresholds bound the fuzzy-match confidence bands.
type Thresholds struct {
	Match         float64
	Suggest       float64
	MaxCandidates int
}

// Outcome is the decision engine's ruling for one finalize evaluation.
type Outcome struct {
	Status     Status
	Confidence float64
	EntityType string
	EntityID   int64
	Question   *QuestionSpec
	Candidates []catalog.Candidate
	Rule       string
	Detail     map[string]any
}

// Decide maps an evidence snapshot and its candidate lookups to an outcome.
// Pure: lookups happen before the call, so every branch is reproducible from
// its recorded inputs. Rules are evaluated in fixed order; barcode evidence
// is authoritative and bypasses every fuzzy signal.
func Decide(snap Snapshot, frameCount int, exact *catalog.BarcodeMatch, candidates []catalog.Candidate, th Thresholds) Outcome {
	detail := map[string]any{
		"evidence":   snapshotDetail(snap),
		"frameCount": frameCount,
	}

	if frameCount == 0 && !snap.HasTextEvidence() {
		return Outcome{
			Status:   StatusNeedsQuestion,
			Question: CaptureFrameQuestion(),
			Rule:     RuleNoEvidence,
			Detail:   detail,
		}
	}

	if snap.GTIN != "" && exact != nil {
		detail["gtin"] = exact.GTIN
		detail["display"] = exact.Display
		return Outcome{
			Status:     StatusMatched,
			Confidence: 1.0,
			EntityType: catalog.EntityTypeShade,
			EntityID:   exact.ShadeID,
			Rule:       RuleBarcodeExact,
			Detail:     detail,
		}
	}

	var top *catalog.Candidate
	if len(candidates) > 0 {
		top = &candidates[0]
		detail["topCandidate"] = map[string]any{
			"shadeId":    top.ShadeID,
			"display":    top.Display,
			"confidence": top.Confidence,
		}
	}

	switch {
	case top != nil && top.Confidence >= th.Match:
		return Outcome{
			Status:     StatusMatched,
			Confidence: top.Confidence,
			EntityType: catalog.EntityTypeShade,
			EntityID:   top.ShadeID,
			Candidates: candidates,
			Rule:       RuleFuzzyConfident,
			Detail:     detail,
		}
	case top != nil && top.Confidence >= th.Suggest:
		return Outcome{
			Status:     StatusNeedsQuestion,
			Confidence: top.Confidence,
			Question:   CandidateSelectQuestion(candidates),
			Candidates: candidates,
			Rule:       RuleFuzzyAmbiguous,
			Detail:     detail,
		}
	case snap.Brand == "" || snap.ShadeName == "":
		return Outcome{
			Status:     StatusNeedsQuestion,
			Confidence: topConfidence(top),
			Question:   BrandShadeQuestion(),
			Candidates: candidates,
			Rule:       RuleEvidenceIncomplete,
			Detail:     detail,
		}
	default:
		return Outcome{
			Status:     StatusUnmatched,
			Confidence: topConfidence(top),
			Candidates: candidates,
			Rule:       RuleNoConfidentMatch,
			Detail:     detail,
		}
	}
}

func topConfidence(top *catalog.Candidate) float64 {
	if top == nil {
		return 0
	}
	return top.Confidence
}

func snapshotDetail(snap Snapshot) map[string]string {
	fields := make(map[string]string, 4)
	if snap.GTIN != "" {
		fields["gtin"] = snap.GTIN
	}
	if snap.Brand != "" {
		fields["brand"] = snap.Brand
	}
	if snap.ShadeName != "" {
		fields["shadeName"] = snap.ShadeName
	}
	if snap.Finish != "" {
		fields["finish"] = snap.Finish
	}
	return fields
}
