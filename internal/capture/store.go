package capture

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lacquer/internal/db"
)

// Store persists capture sessions and their frames, questions, answers,
// and decision log.
type Store struct {
	db *db.DB
}

// NewStore creates a capture store over an open database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// DB exposes the underlying handle so the engine can run multi-store
// transactions.
func (s *Store) DB() *db.DB {
	return s.db
}

const sessionColumns = `id, external_id, user_id, status, top_confidence,
	accepted_entity_type, accepted_entity_id, hints_json, revision,
	created_at, updated_at`

// CreateSession inserts a new processing session and returns it.
func (s *Store) CreateSession(ctx context.Context, userID string, hints map[string]any) (*Session, error) {
	hintsJSON := ""
	if len(hints) > 0 {
		encoded, err := json.Marshal(hints)
		if err != nil {
			return nil, Wrap(ErrValidation, "capture", "create session", "encode hints", err)
		}
		hintsJSON = string(encoded)
	}

	now := time.Now().UTC()
	externalID := uuid.NewString()
	result, err := s.db.ExecRetry(ctx, `
		INSERT INTO capture_sessions
			(external_id, user_id, status, hints_json, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)`,
		externalID, userID, string(StatusProcessing), db.NullableString(hintsJSON),
		db.FormatTime(now), db.FormatTime(now))
	if err != nil {
		return nil, Wrap(ErrInternal, "capture", "create session", "insert", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, Wrap(ErrInternal, "capture", "create session", "read id", err)
	}
	return &Session{
		ID:         id,
		ExternalID: externalID,
		UserID:     userID,
		Status:     StatusProcessing,
		HintsJSON:  hintsJSON,
		Revision:   1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// GetSessionByExternalID fetches a session by its public identifier.
func (s *Store) GetSessionByExternalID(ctx context.Context, externalID string) (*Session, error) {
	row := s.db.SQL().QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM capture_sessions WHERE external_id = ?`, sessionColumns), externalID)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Wrap(ErrNotFound, "capture", "get session", "session "+externalID, nil)
	}
	if err != nil {
		return nil, Wrap(ErrInternal, "capture", "get session", "scan", err)
	}
	return session, nil
}

// Hints decodes the session's start-time hints, tolerating absence.
func (sess *Session) Hints() map[string]any {
	if sess.HintsJSON == "" {
		return nil
	}
	var hints map[string]any
	if err := json.Unmarshal([]byte(sess.HintsJSON), &hints); err != nil {
		return nil
	}
	return hints
}

// AddFrame appends an evidence frame to a session.
func (s *Store) AddFrame(ctx context.Context, sessionID int64, frameType FrameType, imageRef, evidenceJSON string) (*Frame, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecRetry(ctx, `
		INSERT INTO capture_frames (session_id, frame_type, image_ref, evidence_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		sessionID, string(frameType), db.NullableString(imageRef),
		db.NullableString(evidenceJSON), db.FormatTime(now))
	if err != nil {
		return nil, Wrap(ErrInternal, "capture", "add frame", "insert", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, Wrap(ErrInternal, "capture", "add frame", "read id", err)
	}
	return &Frame{
		ID:           id,
		SessionID:    sessionID,
		FrameType:    frameType,
		ImageRef:     imageRef,
		EvidenceJSON: evidenceJSON,
		CreatedAt:    now,
	}, nil
}

// FramesNewestFirst returns the session's frames, most recent first, so the
// evidence aggregator can let later photos override earlier ones.
func (s *Store) FramesNewestFirst(ctx context.Context, sessionID int64) ([]*Frame, error) {
	rows, err := s.db.SQL().QueryContext(ctx, `
		SELECT id, session_id, frame_type, image_ref, evidence_json, created_at
		FROM capture_frames WHERE session_id = ? ORDER BY id DESC`, sessionID)
	if err != nil {
		return nil, Wrap(ErrInternal, "capture", "list frames", "query", err)
	}
	defer rows.Close()

	var frames []*Frame
	for rows.Next() {
		frame, err := scanFrame(rows)
		if err != nil {
			return nil, Wrap(ErrInternal, "capture", "list frames", "scan", err)
		}
		frames = append(frames, frame)
	}
	return frames, rows.Err()
}

// OpenQuestion returns the session's single open question, or nil.
func (s *Store) OpenQuestion(ctx context.Context, sessionID int64) (*Question, error) {
	row := s.db.SQL().QueryRowContext(ctx, `
		SELECT id, session_id, question_key, prompt, question_type, options_json, status, created_at, updated_at
		FROM capture_questions WHERE session_id = ? AND status = ?
		ORDER BY id DESC LIMIT 1`, sessionID, string(QuestionOpen))
	question, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, Wrap(ErrInternal, "capture", "open question", "scan", err)
	}
	return question, nil
}

// AnswersByKey returns the latest normalized answer payload per question key,
// considering only questions marked answered.
func (s *Store) AnswersByKey(ctx context.Context, sessionID int64) (map[string]any, error) {
	rows, err := s.db.SQL().QueryContext(ctx, `
		SELECT q.question_key, a.normalized_json
		FROM capture_answers a
		JOIN capture_questions q ON q.id = a.question_id
		WHERE q.session_id = ? AND q.status = ?
		ORDER BY a.id ASC`, sessionID, string(QuestionAnswered))
	if err != nil {
		return nil, Wrap(ErrInternal, "capture", "list answers", "query", err)
	}
	defer rows.Close()

	answers := make(map[string]any)
	for rows.Next() {
		var key string
		var normalized sql.NullString
		if err := rows.Scan(&key, &normalized); err != nil {
			return nil, Wrap(ErrInternal, "capture", "list answers", "scan", err)
		}
		if !normalized.Valid || normalized.String == "" {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(normalized.String), &payload); err != nil {
			continue
		}
		// later answers override earlier ones for the same key
		answers[key] = any(payload)
	}
	return answers, rows.Err()
}

// Decisions returns the session's audit log oldest first.
func (s *Store) Decisions(ctx context.Context, sessionID int64) ([]*Decision, error) {
	rows, err := s.db.SQL().QueryContext(ctx, `
		SELECT id, session_id, rule, detail_json, created_at
		FROM capture_decisions WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, Wrap(ErrInternal, "capture", "list decisions", "query", err)
	}
	defer rows.Close()

	var decisions []*Decision
	for rows.Next() {
		var decision Decision
		var detail sql.NullString
		var created string
		if err := rows.Scan(&decision.ID, &decision.SessionID, &decision.Rule, &detail, &created); err != nil {
			return nil, Wrap(ErrInternal, "capture", "list decisions", "scan", err)
		}
		decision.DetailJSON = detail.String
		decision.CreatedAt, _ = db.ParseTime(created)
		decisions = append(decisions, &decision)
	}
	return decisions, rows.Err()
}

// SessionStats summarizes sessions by status for the daemon status view.
func (s *Store) SessionStats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.SQL().QueryContext(ctx,
		`SELECT status, COUNT(*) FROM capture_sessions GROUP BY status`)
	if err != nil {
		return nil, Wrap(ErrInternal, "capture", "session stats", "query", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, Wrap(ErrInternal, "capture", "session stats", "scan", err)
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

// Transaction helpers. These run inside a caller-owned tx so a finalize can
// expire questions, move the session, log the decision, and touch inventory
// atomically.

func expireOpenQuestionsTx(tx *sql.Tx, sessionID int64, now time.Time) error {
	_, err := tx.Exec(`
		UPDATE capture_questions SET status = ?, updated_at = ?
		WHERE session_id = ? AND status = ?`,
		string(QuestionExpired), db.FormatTime(now), sessionID, string(QuestionOpen))
	return err
}

// updateSessionTx moves a session to a new state guarded by its revision.
// Zero rows updated means another writer got there first.
func updateSessionTx(tx *sql.Tx, session *Session, status Status, confidence *float64, entityType string, entityID int64, now time.Time) error {
	result, err := tx.Exec(`
		UPDATE capture_sessions
		SET status = ?, top_confidence = ?, accepted_entity_type = ?,
			accepted_entity_id = ?, revision = revision + 1, updated_at = ?
		WHERE id = ? AND revision = ?`,
		string(status), db.NullableFloat(confidence), db.NullableString(entityType),
		nullableID(entityID), db.FormatTime(now), session.ID, session.Revision)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return Wrap(ErrConflict, "capture", "update session",
			fmt.Sprintf("session %s changed concurrently", session.ExternalID), nil)
	}
	session.Status = status
	session.TopConfidence = confidence
	session.AcceptedEntityType = entityType
	session.AcceptedEntityID = entityID
	session.Revision++
	session.UpdatedAt = now
	return nil
}

func insertQuestionTx(tx *sql.Tx, sessionID int64, spec *QuestionSpec, now time.Time) (int64, error) {
	optionsJSON := ""
	if len(spec.Options) > 0 {
		encoded, err := json.Marshal(spec.Options)
		if err != nil {
			return 0, err
		}
		optionsJSON = string(encoded)
	}
	result, err := tx.Exec(`
		INSERT INTO capture_questions
			(session_id, question_key, prompt, question_type, options_json, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, string(spec.Key), spec.Prompt, string(spec.Type),
		db.NullableString(optionsJSON), string(QuestionOpen),
		db.FormatTime(now), db.FormatTime(now))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func insertDecisionTx(tx *sql.Tx, sessionID int64, rule string, detail map[string]any, now time.Time) error {
	detailJSON := ""
	if len(detail) > 0 {
		encoded, err := json.Marshal(detail)
		if err != nil {
			return err
		}
		detailJSON = string(encoded)
	}
	_, err := tx.Exec(`
		INSERT INTO capture_decisions (session_id, rule, detail_json, created_at)
		VALUES (?, ?, ?, ?)`,
		sessionID, rule, db.NullableString(detailJSON), db.FormatTime(now))
	return err
}

func insertAnswerTx(tx *sql.Tx, questionID int64, rawJSON, normalizedJSON, answeredBy string, now time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO capture_answers (question_id, raw_json, normalized_json, answered_by, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		questionID, rawJSON, db.NullableString(normalizedJSON),
		db.NullableString(answeredBy), db.FormatTime(now))
	return err
}

func setQuestionStatusTx(tx *sql.Tx, questionID int64, status QuestionStatus, now time.Time) error {
	_, err := tx.Exec(`
		UPDATE capture_questions SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), db.FormatTime(now), questionID)
	return err
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var session Session
	var confidence sql.NullFloat64
	var entityType, hints sql.NullString
	var entityID sql.NullInt64
	var created, updated string
	err := row.Scan(&session.ID, &session.ExternalID, &session.UserID, &session.Status,
		&confidence, &entityType, &entityID, &hints, &session.Revision, &created, &updated)
	if err != nil {
		return nil, err
	}
	if confidence.Valid {
		value := confidence.Float64
		session.TopConfidence = &value
	}
	session.AcceptedEntityType = entityType.String
	session.AcceptedEntityID = entityID.Int64
	session.HintsJSON = hints.String
	session.CreatedAt, _ = db.ParseTime(created)
	session.UpdatedAt, _ = db.ParseTime(updated)
	return &session, nil
}

func scanFrame(row rowScanner) (*Frame, error) {
	var frame Frame
	var imageRef, evidence sql.NullString
	var created string
	err := row.Scan(&frame.ID, &frame.SessionID, &frame.FrameType, &imageRef, &evidence, &created)
	if err != nil {
		return nil, err
	}
	frame.ImageRef = imageRef.String
	frame.EvidenceJSON = evidence.String
	frame.CreatedAt, _ = db.ParseTime(created)
	return &frame, nil
}

func scanQuestion(row rowScanner) (*Question, error) {
	var question Question
	var options sql.NullString
	var created, updated string
	err := row.Scan(&question.ID, &question.SessionID, &question.Key, &question.Prompt,
		&question.Type, &options, &question.Status, &created, &updated)
	if err != nil {
		return nil, err
	}
	if options.Valid && options.String != "" {
		if err := json.Unmarshal([]byte(options.String), &question.Options); err != nil {
			return nil, err
		}
	}
	question.CreatedAt, _ = db.ParseTime(created)
	question.UpdatedAt, _ = db.ParseTime(updated)
	return &question, nil
}
