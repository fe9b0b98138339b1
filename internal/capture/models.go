package capture

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a capture session.
type Status string

const (
	StatusProcessing    Status = "processing"
	StatusNeedsQuestion Status = "needs_question"
	StatusMatched       Status = "matched"
	StatusUnmatched     Status = "unmatched"
	StatusCancelled     Status = "cancelled"
)

var allStatuses = []Status{
	StatusProcessing,
	StatusNeedsQuestion,
	StatusMatched,
	StatusUnmatched,
	StatusCancelled,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Terminal reports whether a session in this status accepts further mutation.
func (s Status) Terminal() bool {
	switch s {
	case StatusMatched, StatusUnmatched, StatusCancelled:
		return true
	default:
		return false
	}
}

// FrameType tags the kind of evidence a frame carries.
type FrameType string

const (
	FrameBarcode FrameType = "barcode"
	FrameLabel   FrameType = "label"
	FrameColor   FrameType = "color"
	FrameOther   FrameType = "other"
)

// ParseFrameType converts a string into a known FrameType.
func ParseFrameType(value string) (FrameType, bool) {
	switch FrameType(strings.ToLower(strings.TrimSpace(value))) {
	case FrameBarcode:
		return FrameBarcode, true
	case FrameLabel:
		return FrameLabel, true
	case FrameColor:
		return FrameColor, true
	case FrameOther:
		return FrameOther, true
	default:
		return "", false
	}
}

// QuestionKey identifies the semantics of a clarifying question.
type QuestionKey string

const (
	QuestionCaptureFrame    QuestionKey = "capture_frame"
	QuestionBrandShade      QuestionKey = "brand_shade"
	QuestionCandidateSelect QuestionKey = "candidate_select"
)

// QuestionType describes the expected answer shape.
type QuestionType string

const (
	QuestionSingleSelect QuestionType = "single_select"
	QuestionMultiSelect  QuestionType = "multi_select"
	QuestionFreeText     QuestionType = "free_text"
	QuestionBoolean      QuestionType = "boolean"
)

// QuestionStatus tracks a question through its life.
type QuestionStatus string

const (
	QuestionOpen     QuestionStatus = "open"
	QuestionAnswered QuestionStatus = "answered"
	QuestionSkipped  QuestionStatus = "skipped"
	QuestionExpired  QuestionStatus = "expired"
)

// SkipSentinel is the literal answer value that declines a question.
const SkipSentinel = "skip"

// Session is one user attempt to identify a physical product.
type Session struct {
	ID                 int64
	ExternalID         string
	UserID             string
	Status             Status
	TopConfidence      *float64
	AcceptedEntityType string
	AcceptedEntityID   int64
	HintsJSON          string
	Revision           int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Frame is one piece of evidence submitted during a session.
type Frame struct {
	ID           int64
	SessionID    int64
	FrameType    FrameType
	ImageRef     string
	EvidenceJSON string
	CreatedAt    time.Time
}

// Question is a structured prompt issued to narrow ambiguous evidence.
// At most one question per session is ever open.
type Question struct {
	ID        int64
	SessionID int64
	Key       QuestionKey
	Prompt    string
	Type      QuestionType
	Options   []string
	Status    QuestionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Answer records one submitted response to a question with provenance.
type Answer struct {
	ID             int64
	QuestionID     int64
	RawJSON        string
	NormalizedJSON string
	AnsweredBy     string
	CreatedAt      time.Time
}

// Decision is one immutable entry of the per-session decision audit log.
type Decision struct {
	ID         int64
	SessionID  int64
	Rule       string
	DetailJSON string
	CreatedAt  time.Time
}
