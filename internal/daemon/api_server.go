package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"lacquer/internal/api"
	"lacquer/internal/capture"
	"lacquer/internal/config"
	"lacquer/internal/logging"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	captureSvc   *api.CaptureService
	inventorySvc *api.InventoryService
	catalogSvc   *api.CatalogService

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, captureSvc *api.CaptureService, inventorySvc *api.InventoryService, catalogSvc *api.CatalogService, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, fmt.Errorf("daemon: api_bind is required")
	}

	srv := &apiServer{
		bind:         bind,
		logger:       logging.NewComponentLogger(logger, "api"),
		daemon:       d,
		captureSvc:   captureSvc,
		inventorySvc: inventorySvc,
		catalogSvc:   catalogSvc,
	}

	token := strings.TrimSpace(cfg.Paths.APIToken)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", authMiddleware(token, srv.handleStatus))
	mux.HandleFunc("/api/sessions", authMiddleware(token, srv.handleSessions))
	mux.HandleFunc("/api/sessions/", authMiddleware(token, srv.handleSession))
	mux.HandleFunc("/api/inventory", authMiddleware(token, srv.handleInventory))
	mux.HandleFunc("/api/catalog/search", authMiddleware(token, srv.handleCatalogSearch))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Status(r.Context()))
}

func (s *apiServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.StartSessionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.captureSvc.Start(r.Context(), req)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.SessionResponse{Session: session})
}

// handleSession dispatches /api/sessions/{id} and its action subpaths.
func (s *apiServer) handleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	sessionID, action, _ := strings.Cut(rest, "/")
	if sessionID == "" || strings.Contains(action, "/") {
		s.writeError(w, http.StatusNotFound, "session not found")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		detail, err := s.captureSvc.Describe(r.Context(), sessionID)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, detail)

	case action == "frames" && r.Method == http.MethodPost:
		var req api.AddFrameRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		frame, err := s.captureSvc.AddFrame(r.Context(), sessionID, req)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, api.FrameResponse{Frame: frame})

	case action == "finalize" && r.Method == http.MethodPost:
		detail, err := s.captureSvc.Finalize(r.Context(), sessionID)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, detail)

	case action == "answer" && r.Method == http.MethodPost:
		var req api.AnswerRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		detail, err := s.captureSvc.Answer(r.Context(), sessionID, req)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, detail)

	case action == "cancel" && r.Method == http.MethodPost:
		session, err := s.captureSvc.Cancel(r.Context(), sessionID)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.SessionResponse{Session: session})

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleInventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	items, err := s.inventorySvc.List(r.Context(), r.URL.Query().Get("user"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.InventoryListResponse{Items: items})
}

func (s *apiServer) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query()
	candidates, err := s.catalogSvc.Search(r.Context(), query.Get("q"), query.Get("brand"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SearchResponse{Candidates: candidates})
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeEngineError maps engine error classes onto HTTP statuses.
func (s *apiServer) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case capture.IsValidation(err):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case capture.IsNotFound(err):
		s.writeError(w, http.StatusNotFound, err.Error())
	case capture.IsConflict(err):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("request failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
