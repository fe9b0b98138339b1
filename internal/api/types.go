package api

import "encoding/json"

// Session describes a capture session in a transport-friendly format. The
// public identifier is the session's external id; database row ids never
// leave the daemon.
type Session struct {
	ID                 string   `json:"id"`
	UserID             string   `json:"userId"`
	Status             string   `json:"status"`
	TopConfidence      *float64 `json:"topConfidence,omitempty"`
	AcceptedEntityType string   `json:"acceptedEntityType,omitempty"`
	AcceptedEntityID   int64    `json:"acceptedEntityId,omitempty"`
	Revision           int64    `json:"revision"`
	CreatedAt          string   `json:"createdAt,omitempty"`
	UpdatedAt          string   `json:"updatedAt,omitempty"`
}

// Frame describes one submitted evidence frame.
type Frame struct {
	ID        int64           `json:"id"`
	FrameType string          `json:"frameType"`
	ImageRef  string          `json:"imageRef,omitempty"`
	Evidence  json.RawMessage `json:"evidence,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty"`
}

// Question describes an open clarifying question.
type Question struct {
	ID      int64    `json:"id"`
	Key     string   `json:"key"`
	Prompt  string   `json:"prompt"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
	Status  string   `json:"status"`
}

// Decision is one audit-log entry explaining a state transition.
type Decision struct {
	ID        int64           `json:"id"`
	Rule      string          `json:"rule"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty"`
}

// SessionDetail is the full status projection of one session.
type SessionDetail struct {
	Session   Session    `json:"session"`
	Frames    []Frame    `json:"frames"`
	Question  *Question  `json:"question,omitempty"`
	Decisions []Decision `json:"decisions,omitempty"`
}

// InventoryItem describes one owned shade.
type InventoryItem struct {
	ID        int64  `json:"id"`
	ShadeID   int64  `json:"shadeId"`
	Brand     string `json:"brand"`
	ShadeName string `json:"shadeName"`
	Finish    string `json:"finish,omitempty"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Candidate is one ranked catalog suggestion.
type Candidate struct {
	ShadeID    int64   `json:"shadeId"`
	Display    string  `json:"display"`
	Confidence float64 `json:"confidence"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool           `json:"running"`
	PID          int            `json:"pid"`
	DatabasePath string         `json:"databasePath"`
	LockFilePath string         `json:"lockFilePath"`
	SessionStats map[string]int `json:"sessionStats"`
}

// StartSessionRequest opens a new capture session.
type StartSessionRequest struct {
	UserID string         `json:"userId,omitempty"`
	Hints  map[string]any `json:"hints,omitempty"`
}

// AddFrameRequest attaches an evidence frame to a session.
type AddFrameRequest struct {
	FrameType string          `json:"frameType"`
	ImageRef  string          `json:"imageRef,omitempty"`
	Evidence  json.RawMessage `json:"evidence,omitempty"`
}

// AnswerRequest submits a response to the session's open question. A
// non-zero QuestionID guards against answering a question that has since
// been expired or replaced.
type AnswerRequest struct {
	QuestionID int64  `json:"questionId,omitempty"`
	Value      any    `json:"value"`
	AnsweredBy string `json:"answeredBy,omitempty"`
}

// SessionResponse wraps a single session payload.
type SessionResponse struct {
	Session Session `json:"session"`
}

// FrameResponse wraps a single frame payload.
type FrameResponse struct {
	Frame Frame `json:"frame"`
}

// InventoryListResponse wraps a user's inventory.
type InventoryListResponse struct {
	Items []InventoryItem `json:"items"`
}

// SearchResponse wraps ranked catalog candidates.
type SearchResponse struct {
	Candidates []Candidate `json:"candidates"`
}
