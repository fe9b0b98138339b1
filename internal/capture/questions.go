package capture

import (
	"fmt"

	"lacquer/internal/catalog"
)

// QuestionSpec describes a question to raise before it is persisted.
type QuestionSpec struct {
	Key     QuestionKey
	Prompt  string
	Type    QuestionType
	Options []string
}

const (
	captureFramePrompt = "No usable photo evidence was found. Take another photo of the bottle, ideally showing the label or barcode."
	brandShadePrompt   = "Which polish is this? Reply with brand and shade, for example \"OPI - Bubble Bath\"."
	candidatePrompt    = "Which of these matches the bottle? Reply with the number, or \"skip\" if none fit."
)

// CaptureFrameQuestion asks for another photo when no evidence exists.
func CaptureFrameQuestion() *QuestionSpec {
	return &QuestionSpec{
		Key:    QuestionCaptureFrame,
		Prompt: captureFramePrompt,
		Type:   QuestionFreeText,
	}
}

// BrandShadeQuestion asks for the brand and shade in free text.
func BrandShadeQuestion() *QuestionSpec {
	return &QuestionSpec{
		Key:    QuestionBrandShade,
		Prompt: brandShadePrompt,
		Type:   QuestionFreeText,
	}
}

// CandidateSelectQuestion offers the ranked candidates plus a skip option.
// Each option encodes the shade id so answers resolve without a re-search.
func CandidateSelectQuestion(candidates []catalog.Candidate) *QuestionSpec {
	options := make([]string, 0, len(candidates)+1)
	for _, c := range candidates {
		options = append(options, fmt.Sprintf("%d: %s", c.ShadeID, c.Display))
	}
	options = append(options, SkipSentinel)
	return &QuestionSpec{
		Key:     QuestionCandidateSelect,
		Prompt:  candidatePrompt,
		Type:    QuestionSingleSelect,
		Options: options,
	}
}
