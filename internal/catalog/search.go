package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// SearchShades ranks catalog shades by similarity to the provided name. When
// brand evidence exists and matches a known brand, only that brand's shades
// are considered; an unknown brand falls back to the whole catalog rather
// than returning nothing. Results are sorted by descending confidence and
// capped at limit. An empty result is a normal outcome, not an error.
func (s *Store) SearchShades(ctx context.Context, name, brand string, limit int) ([]Candidate, error) {
	query := Normalize(name)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	brandFilter := ""
	if normalized := Normalize(brand); normalized != "" {
		brandFilter = normalized
	}

	shades, err := s.ListShades(ctx, "")
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(shades))
	matchedBrand := false
	for _, shade := range shades {
		if brandFilter != "" && Normalize(shade.BrandName) == brandFilter {
			matchedBrand = true
			break
		}
	}
	for _, shade := range shades {
		if matchedBrand && Normalize(shade.BrandName) != brandFilter {
			continue
		}
		score := scoreShade(query, shade)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			ShadeID:    shade.ID,
			Display:    shade.Display(),
			Confidence: score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// scoreShade computes a normalized similarity in [0, 1] between the query and
// a shade name, with a small boost when the query also contains the brand.
func scoreShade(normalizedQuery string, shade *Shade) float64 {
	shadeKey := Normalize(shade.Name)
	if shadeKey == "" {
		return 0
	}

	score := levenshtein.Similarity(normalizedQuery, shadeKey, nil)

	// Queries like "opi bubble bath" carry the brand inline; strip it and
	// keep the better of the two scores.
	if brandKey := Normalize(shade.BrandName); brandKey != "" {
		if stripped := strings.TrimSpace(strings.TrimPrefix(normalizedQuery, brandKey)); stripped != normalizedQuery {
			if alt := levenshtein.Similarity(stripped, shadeKey, nil); alt > score {
				score = alt
			}
		}
	}
	return score
}
