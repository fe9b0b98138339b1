package capture

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lacquer/internal/catalog"
	"lacquer/internal/inventory"
	"lacquer/internal/logging"
)

// Engine drives capture sessions from creation through resolution. All state
// transitions it performs are atomic: expiring questions, moving the session,
// raising a new question, logging the decision, and touching inventory happen
// in one transaction or not at all.
type Engine struct {
	store       *Store
	catalog     *catalog.Store
	thresholds  Thresholds
	defaultUser string
	logger      *slog.Logger
}

// NewEngine wires the engine to its stores.
func NewEngine(store *Store, cat *catalog.Store, thresholds Thresholds, defaultUser string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		store:       store,
		catalog:     cat,
		thresholds:  thresholds,
		defaultUser: defaultUser,
		logger:      logging.NewComponentLogger(logger, "engine"),
	}
}

// SessionView is the full status projection of one session.
type SessionView struct {
	Session   *Session
	Frames    []*Frame
	Question  *Question
	Decisions []*Decision
}

// Start opens a new capture session in the processing state.
func (e *Engine) Start(ctx context.Context, userID string, hints map[string]any) (*Session, error) {
	if strings.TrimSpace(userID) == "" {
		userID = e.defaultUser
	}
	session, err := e.store.CreateSession(ctx, userID, hints)
	if err != nil {
		return nil, err
	}
	e.logger.Info("session started",
		logging.String(logging.FieldSessionID, session.ExternalID),
		logging.String(logging.FieldUserID, session.UserID))
	return session, nil
}

// AddFrame attaches an evidence frame to a live session. Terminal sessions
// reject new frames.
func (e *Engine) AddFrame(ctx context.Context, externalID, frameType, imageRef, evidenceJSON string) (*Frame, error) {
	session, err := e.store.GetSessionByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, Wrap(ErrConflict, "engine", "add frame",
			fmt.Sprintf("session %s is %s", session.ExternalID, session.Status), nil)
	}
	parsed, ok := ParseFrameType(frameType)
	if !ok {
		return nil, Wrap(ErrValidation, "engine", "add frame",
			fmt.Sprintf("unknown frame type %q", frameType), nil)
	}
	return e.store.AddFrame(ctx, session.ID, parsed, imageRef, evidenceJSON)
}

// Finalize re-evaluates all accumulated evidence and moves the session to its
// next state. Finalizing a terminal session returns the stored result without
// re-running the decision, so retries are safe.
func (e *Engine) Finalize(ctx context.Context, externalID string) (*SessionView, error) {
	session, err := e.store.GetSessionByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return e.view(ctx, session)
	}
	if err := e.evaluate(ctx, session); err != nil {
		return nil, err
	}
	return e.view(ctx, session)
}

// evaluate runs the evidence pipeline and applies the outcome atomically.
func (e *Engine) evaluate(ctx context.Context, session *Session) error {
	frames, err := e.store.FramesNewestFirst(ctx, session.ID)
	if err != nil {
		return err
	}
	answers, err := e.store.AnswersByKey(ctx, session.ID)
	if err != nil {
		return err
	}

	snap, audit := Aggregate(frames, answers, session.Hints())

	var exact *catalog.BarcodeMatch
	if snap.GTIN != "" {
		exact, err = e.catalog.FindByBarcode(ctx, snap.GTIN)
		if err != nil {
			return Wrap(ErrInternal, "engine", "finalize", "barcode lookup", err)
		}
	}

	var candidates []catalog.Candidate
	if snap.ShadeName != "" || snap.Brand != "" {
		query := snap.ShadeName
		if query == "" {
			query = snap.Brand
		}
		candidates, err = e.catalog.SearchShades(ctx, query, snap.Brand, e.thresholds.MaxCandidates)
		if err != nil {
			return Wrap(ErrInternal, "engine", "finalize", "candidate search", err)
		}
	}

	outcome := Decide(snap, len(frames), exact, candidates, e.thresholds)
	if auditJSON, err := json.Marshal(audit); err == nil {
		outcome.Detail["evidenceAudit"] = json.RawMessage(auditJSON)
	}

	if err := e.apply(ctx, session, outcome); err != nil {
		return err
	}
	e.logger.Info("session evaluated",
		logging.String(logging.FieldSessionID, session.ExternalID),
		logging.String(logging.FieldRule, outcome.Rule),
		logging.String("status", string(outcome.Status)),
		logging.Float64(logging.FieldConfidence, outcome.Confidence))
	return nil
}

// apply commits one decision outcome in a single transaction.
func (e *Engine) apply(ctx context.Context, session *Session, outcome Outcome) error {
	now := time.Now().UTC()
	confidence := outcome.Confidence
	return e.store.DB().WithTx(ctx, func(tx *sql.Tx) error {
		if err := expireOpenQuestionsTx(tx, session.ID, now); err != nil {
			return Wrap(ErrInternal, "engine", "apply outcome", "expire questions", err)
		}
		err := updateSessionTx(tx, session, outcome.Status, &confidence,
			outcome.EntityType, outcome.EntityID, now)
		if err != nil {
			return err
		}
		if outcome.Question != nil {
			if _, err := insertQuestionTx(tx, session.ID, outcome.Question, now); err != nil {
				return Wrap(ErrInternal, "engine", "apply outcome", "insert question", err)
			}
		}
		if err := insertDecisionTx(tx, session.ID, outcome.Rule, outcome.Detail, now); err != nil {
			return Wrap(ErrInternal, "engine", "apply outcome", "log decision", err)
		}
		if outcome.Status == StatusMatched {
			note := fmt.Sprintf("matched via %s", outcome.Rule)
			if err := inventory.ApplyMatchTx(tx, session.UserID, outcome.EntityID, note, now); err != nil {
				return Wrap(ErrInternal, "engine", "apply outcome", "update inventory", err)
			}
		}
		return nil
	})
}

// Answer records a response to the session's open question. A non-zero
// questionID must name that open question; answers to an already-closed
// question are rejected rather than silently re-targeted. A non-skip
// candidate selection resolves the session immediately with full confidence;
// every other answer returns the session to processing for the next finalize.
func (e *Engine) Answer(ctx context.Context, externalID string, questionID int64, value any, answeredBy string) (*SessionView, error) {
	session, err := e.store.GetSessionByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, Wrap(ErrConflict, "engine", "answer",
			fmt.Sprintf("session %s is %s", session.ExternalID, session.Status), nil)
	}
	question, err := e.store.OpenQuestion(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, Wrap(ErrConflict, "engine", "answer",
			fmt.Sprintf("session %s has no open question", session.ExternalID), nil)
	}
	if questionID != 0 && questionID != question.ID {
		return nil, Wrap(ErrConflict, "engine", "answer",
			fmt.Sprintf("question %d is not open on session %s", questionID, session.ExternalID), nil)
	}

	rawJSON, err := json.Marshal(value)
	if err != nil {
		return nil, Wrap(ErrValidation, "engine", "answer", "encode answer", err)
	}
	normalized := NormalizeAnswer(question.Key, value)
	normalizedJSON, err := json.Marshal(normalized)
	if err != nil {
		return nil, Wrap(ErrInternal, "engine", "answer", "encode normalized answer", err)
	}

	skipped := IsSkip(value)
	selectedID, selected := int64(0), false
	if question.Key == QuestionCandidateSelect && !skipped {
		selectedID, selected = ExtractEntityID(value)
		if !selected {
			return nil, Wrap(ErrValidation, "engine", "answer",
				fmt.Sprintf("answer %q does not name a candidate", string(rawJSON)), nil)
		}
		shade, err := e.catalog.GetShade(ctx, selectedID)
		if err != nil {
			return nil, Wrap(ErrInternal, "engine", "answer", "candidate lookup", err)
		}
		if shade == nil {
			return nil, Wrap(ErrValidation, "engine", "answer",
				fmt.Sprintf("shade %d is not in the catalog", selectedID), nil)
		}
	}

	now := time.Now().UTC()
	err = e.store.DB().WithTx(ctx, func(tx *sql.Tx) error {
		if err := insertAnswerTx(tx, question.ID, string(rawJSON), string(normalizedJSON), answeredBy, now); err != nil {
			return Wrap(ErrInternal, "engine", "answer", "record answer", err)
		}
		questionStatus := QuestionAnswered
		if skipped {
			questionStatus = QuestionSkipped
		}
		if err := setQuestionStatusTx(tx, question.ID, questionStatus, now); err != nil {
			return Wrap(ErrInternal, "engine", "answer", "close question", err)
		}

		if selected {
			confidence := 1.0
			err := updateSessionTx(tx, session, StatusMatched, &confidence,
				catalog.EntityTypeShade, selectedID, now)
			if err != nil {
				return err
			}
			detail := map[string]any{"shadeId": selectedID, "answeredBy": answeredBy}
			if err := insertDecisionTx(tx, session.ID, RuleCandidateSelected, detail, now); err != nil {
				return Wrap(ErrInternal, "engine", "answer", "log decision", err)
			}
			note := fmt.Sprintf("matched via %s", RuleCandidateSelected)
			if err := inventory.ApplyMatchTx(tx, session.UserID, selectedID, note, now); err != nil {
				return Wrap(ErrInternal, "engine", "answer", "update inventory", err)
			}
			return nil
		}

		return updateSessionTx(tx, session, StatusProcessing, session.TopConfidence, "", 0, now)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("question answered",
		logging.String(logging.FieldSessionID, session.ExternalID),
		logging.String(logging.FieldQuestionKey, string(question.Key)),
		logging.Bool("skipped", skipped))
	return e.view(ctx, session)
}

// Status returns the session's full projection.
func (e *Engine) Status(ctx context.Context, externalID string) (*SessionView, error) {
	session, err := e.store.GetSessionByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return e.view(ctx, session)
}

// Cancel abandons a live session. Cancelling twice is a no-op; cancelling a
// matched or unmatched session is a conflict.
func (e *Engine) Cancel(ctx context.Context, externalID string) (*Session, error) {
	session, err := e.store.GetSessionByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if session.Status == StatusCancelled {
		return session, nil
	}
	if session.Status.Terminal() {
		return nil, Wrap(ErrConflict, "engine", "cancel",
			fmt.Sprintf("session %s is %s", session.ExternalID, session.Status), nil)
	}

	now := time.Now().UTC()
	err = e.store.DB().WithTx(ctx, func(tx *sql.Tx) error {
		if err := expireOpenQuestionsTx(tx, session.ID, now); err != nil {
			return Wrap(ErrInternal, "engine", "cancel", "expire questions", err)
		}
		err := updateSessionTx(tx, session, StatusCancelled, session.TopConfidence, "", 0, now)
		if err != nil {
			return err
		}
		return insertDecisionTx(tx, session.ID, RuleCancelled, nil, now)
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("session cancelled",
		logging.String(logging.FieldSessionID, session.ExternalID))
	return session, nil
}

func (e *Engine) view(ctx context.Context, session *Session) (*SessionView, error) {
	frames, err := e.store.FramesNewestFirst(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	question, err := e.store.OpenQuestion(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	decisions, err := e.store.Decisions(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return &SessionView{
		Session:   session,
		Frames:    frames,
		Question:  question,
		Decisions: decisions,
	}, nil
}
