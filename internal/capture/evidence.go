package capture

import (
	"encoding/json"
	"strings"
)

// Provenance records which evidence-source variant produced a fact set.
type Provenance string

const (
	// ProvenancePipeline marks facts read from the nested extraction object
	// written by the vision pipeline.
	ProvenancePipeline Provenance = "pipeline"
	// ProvenanceLegacy marks facts read from flat top-level fields written by
	// older clients.
	ProvenanceLegacy Provenance = "legacy"
	// ProvenanceNone marks a frame that yielded no facts at all.
	ProvenanceNone Provenance = "none"
)

// FrameFacts is the partial fact set extracted from a single frame.
type FrameFacts struct {
	GTIN       string
	Brand      string
	ShadeName  string
	Finish     string
	Provenance Provenance
}

// Empty reports whether the frame yielded no evidence.
func (f FrameFacts) Empty() bool {
	return f.GTIN == "" && f.Brand == "" && f.ShadeName == "" && f.Finish == ""
}

// ExtractFrameFacts normalizes one frame's evidence payload into a fact set.
// The payload shape has drifted over time, so extraction tries the sources in
// fixed order: the pipeline's nested "extracted" object first, then legacy
// top-level fields. A payload yielding nothing is a valid no-evidence result,
// not an error; unparseable JSON is likewise treated as no evidence so one
// corrupt frame cannot fail a whole finalize.
func ExtractFrameFacts(evidenceJSON string) FrameFacts {
	none := FrameFacts{Provenance: ProvenanceNone}
	trimmed := strings.TrimSpace(evidenceJSON)
	if trimmed == "" {
		return none
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return none
	}

	if nested, ok := payload["extracted"].(map[string]any); ok {
		if facts := factsFromFields(nested, ProvenancePipeline); !facts.Empty() {
			return facts
		}
	}
	if facts := factsFromFields(payload, ProvenanceLegacy); !facts.Empty() {
		return facts
	}
	return none
}

func factsFromFields(fields map[string]any, provenance Provenance) FrameFacts {
	facts := FrameFacts{Provenance: provenance}
	facts.GTIN = firstStringField(fields, "gtin", "barcode")
	facts.Brand = firstStringField(fields, "brand")
	facts.ShadeName = firstStringField(fields, "shadeName", "shade_name")
	facts.Finish = firstStringField(fields, "finish")
	if facts.Empty() {
		facts.Provenance = ProvenanceNone
	}
	return facts
}

func firstStringField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := fields[key].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// Snapshot is the immutable merged evidence view the decision engine runs on.
// It is recomputed from frames and answers on every finalize, never stored.
type Snapshot struct {
	GTIN      string
	Brand     string
	ShadeName string
	Finish    string
}

// HasTextEvidence reports whether any field carries a value.
func (s Snapshot) HasTextEvidence() bool {
	return s.GTIN != "" || s.Brand != "" || s.ShadeName != "" || s.Finish != ""
}

// EvidenceAudit captures how a snapshot was assembled, for the decision log.
type EvidenceAudit struct {
	FrameCount      int                 `json:"frameCount"`
	HasTextEvidence bool                `json:"hasTextEvidence"`
	FieldSources    map[string]string   `json:"fieldSources,omitempty"`
	FrameFacts      []map[string]string `json:"frameFacts,omitempty"`
}

// evidence merge priority, highest first.
const (
	sourceBrandShadeAnswer = "answer:brand_shade"
	sourceAnswerPrefix     = "answer:"
	sourceHint             = "hint"
	sourceFramePrefix      = "frame:"
)

// Aggregate merges per-frame facts with session answers and start-time hints
// into one snapshot. For each field the first non-empty value wins, scanning:
// the structured brand_shade answer, any other answer under the field's own
// key, the session hint, then frame facts newest-first.
func Aggregate(frames []*Frame, answers map[string]any, hints map[string]any) (Snapshot, EvidenceAudit) {
	audit := EvidenceAudit{
		FrameCount:   len(frames),
		FieldSources: make(map[string]string),
	}

	facts := make([]FrameFacts, 0, len(frames))
	for _, frame := range frames {
		extracted := ExtractFrameFacts(frame.EvidenceJSON)
		facts = append(facts, extracted)
		if !extracted.Empty() {
			audit.FrameFacts = append(audit.FrameFacts, map[string]string{
				"frameType":  string(frame.FrameType),
				"provenance": string(extracted.Provenance),
				"gtin":       extracted.GTIN,
				"brand":      extracted.Brand,
				"shadeName":  extracted.ShadeName,
				"finish":     extracted.Finish,
			})
		}
	}

	brandShade, _ := answers[string(QuestionBrandShade)].(map[string]any)

	var snap Snapshot
	snap.GTIN = mergeField(&audit, "gtin", brandShade, answers, hints, facts, func(f FrameFacts) string { return f.GTIN })
	snap.Brand = mergeField(&audit, "brand", brandShade, answers, hints, facts, func(f FrameFacts) string { return f.Brand })
	snap.ShadeName = mergeField(&audit, "shadeName", brandShade, answers, hints, facts, func(f FrameFacts) string { return f.ShadeName })
	snap.Finish = mergeField(&audit, "finish", brandShade, answers, hints, facts, func(f FrameFacts) string { return f.Finish })

	audit.HasTextEvidence = snap.HasTextEvidence()
	return snap, audit
}

func mergeField(
	audit *EvidenceAudit,
	field string,
	brandShade map[string]any,
	answers map[string]any,
	hints map[string]any,
	facts []FrameFacts,
	pick func(FrameFacts) string,
) string {
	if value := stringFromAny(brandShade[field]); value != "" {
		audit.FieldSources[field] = sourceBrandShadeAnswer
		return value
	}
	if value := stringFromAny(answers[field]); value != "" {
		audit.FieldSources[field] = sourceAnswerPrefix + field
		return value
	}
	if value := stringFromAny(hints[field]); value != "" {
		audit.FieldSources[field] = sourceHint
		return value
	}
	for _, f := range facts {
		if value := pick(f); value != "" {
			audit.FieldSources[field] = sourceFramePrefix + string(f.Provenance)
			return value
		}
	}
	return ""
}

func stringFromAny(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		s, _ := v["value"].(string)
		return strings.TrimSpace(s)
	default:
		return ""
	}
}
