package capture

import (
	"strconv"
	"strings"
)

// BrandShade is the parsed form of a brand_shade answer.
type BrandShade struct {
	Brand     string
	ShadeName string
}

// ParseBrandShade splits a free-text brand/shade reply.
// Separators tried in order: " - ", em dash, "|", ",". With two or more
// segments the first is the brand and the rest join into the shade name.
// A single segment is treated as a shade name with no brand.
func ParseBrandShade(raw string) BrandShade {
	text := strings.TrimSpace(raw)
	if text == "" {
		return BrandShade{}
	}
	for _, sep := range []string{" - ", "—", "–", "|", ","} {
		if !strings.Contains(text, sep) {
			continue
		}
		parts := strings.Split(text, sep)
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) >= 2 {
			return BrandShade{
				Brand:     cleaned[0],
				ShadeName: strings.Join(cleaned[1:], " "),
			}
		}
	}
	return BrandShade{ShadeName: text}
}

// IsSkip reports whether a raw answer value is the skip sentinel.
func IsSkip(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(s), SkipSentinel)
}

// ExtractEntityID pulls a shade id out of a candidate_select answer.
// Accepted forms: a number, a numeric string, an option string like
// "12: OPI — Bubble Bath", or an object carrying a shadeId field.
func ExtractEntityID(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		return int64(v), v == float64(int64(v)) && v > 0
	case int:
		return int64(v), v > 0
	case int64:
		return v, v > 0
	case string:
		text := strings.TrimSpace(v)
		if idx := strings.Index(text, ":"); idx > 0 {
			text = strings.TrimSpace(text[:idx])
		}
		id, err := strconv.ParseInt(text, 10, 64)
		return id, err == nil && id > 0
	case map[string]any:
		if inner, ok := v["shadeId"]; ok {
			return ExtractEntityID(inner)
		}
		if inner, ok := v["value"]; ok {
			return ExtractEntityID(inner)
		}
	}
	return 0, false
}

// NormalizeAnswer produces the normalized payload stored beside the raw
// answer. brand_shade answers gain parsed brand and shadeName fields;
// candidate_select answers gain the resolved shade id or a skipped flag.
func NormalizeAnswer(key QuestionKey, value any) map[string]any {
	normalized := map[string]any{}
	switch key {
	case QuestionBrandShade:
		switch v := value.(type) {
		case string:
			parsed := ParseBrandShade(v)
			if parsed.Brand != "" {
				normalized["brand"] = parsed.Brand
			}
			if parsed.ShadeName != "" {
				normalized["shadeName"] = parsed.ShadeName
			}
		case map[string]any:
			for _, key := range []string{"brand", "shadeName", "finish"} {
				if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
					normalized[key] = strings.TrimSpace(s)
				}
			}
		}
	case QuestionCandidateSelect:
		if IsSkip(value) {
			normalized["skipped"] = true
			break
		}
		if id, ok := ExtractEntityID(value); ok {
			normalized["shadeId"] = id
		}
	case QuestionCaptureFrame:
		if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
			normalized["note"] = strings.TrimSpace(s)
		}
	}
	return normalized
}
