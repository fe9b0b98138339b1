package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID is the standardized structured logging key for capture session identifiers.
	FieldSessionID = "session_id"
	// FieldUserID is the standardized structured logging key for the acting user.
	FieldUserID = "user_id"
	// FieldRule is the standardized structured logging key for decision-engine rule names.
	FieldRule = "rule"
	// FieldQuestionKey is the standardized structured logging key for clarifying-question keys.
	FieldQuestionKey = "question_key"
	// FieldConfidence is the standardized structured logging key for match confidence values.
	FieldConfidence = "confidence"
)
