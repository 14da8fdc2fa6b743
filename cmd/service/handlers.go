package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/tunaaoguzhann/selfie-relay/core"
)

const tokenHeader = "X-Selfie-Token"

type serviceInfo struct {
	TTL         time.Duration
	CORSOrigins []string
}

func newRouter(relay *core.Relay, info serviceInfo, m *metrics, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(accessLog(logger, m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: info.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", tokenHeader, requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}))

	r.Get("/", handleStatus(relay, info.TTL))
	r.Get("/healthz", handleLiveness)
	r.Get("/readyz", handleReadiness(relay, logger))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Post("/api/selfie", handleSet(relay, m, logger))
	r.Get("/api/selfie", handleGet(relay, m, logger))
	r.Delete("/api/selfie", handleDelete(relay, m, logger))
	return r
}

type statusResponse struct {
	OK         bool   `json:"ok"`
	Service    string `json:"service"`
	Mode       string `json:"mode"`
	Now        string `json:"now"`
	TTLMinutes int    `json:"ttl_minutes"`
}

func handleStatus(relay *core.Relay, ttl time.Duration) http.HandlerFunc {
	mode := modeToken
	if relay.SingleSlot() {
		mode = modeSingle
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{
			OK:         true,
			Service:    "selfie-relay",
			Mode:       mode,
			Now:        time.Now().UTC().Format(time.RFC3339),
			TTLMinutes: int(ttl / time.Minute),
		})
	}
}

func handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReadiness(relay *core.Relay, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := relay.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("readiness check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

type setRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

type setResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token,omitempty"`
}

func handleSet(relay *core.Relay, m *metrics, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			m.recordOp("set", "invalid")
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if _, err := relay.Set(r.Context(), req.Token, req.Code); err != nil {
			failRequest(w, r, m, logger, "set", err)
			return
		}
		m.recordOp("set", "ok")
		resp := setResponse{OK: true}
		if !relay.SingleSlot() {
			resp.Token = req.Token
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type getResponse struct {
	OK         bool       `json:"ok"`
	Code       *string    `json:"code"`
	TS         *int64     `json:"ts,omitempty"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
	Expired    bool       `json:"expired"`
}

func handleGet(relay *core.Relay, m *metrics, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lookup, err := relay.Get(r.Context(), tokenFrom(r))
		if err != nil {
			failRequest(w, r, m, logger, "get", err)
			return
		}
		if lookup.Expired {
			m.recordOp("get", "expired")
			writeJSON(w, http.StatusOK, getResponse{OK: true, Expired: true})
			return
		}
		m.recordOp("get", "ok")
		ts := lookup.RecordedAt.UnixMilli()
		recordedAt := lookup.RecordedAt.UTC()
		writeJSON(w, http.StatusOK, getResponse{
			OK:         true,
			Code:       &lookup.Code,
			TS:         &ts,
			RecordedAt: &recordedAt,
		})
	}
}

type deleteRequest struct {
	Token string `json:"token"`
}

type deleteResponse struct {
	OK      bool `json:"ok"`
	Deleted bool `json:"deleted"`
}

func handleDelete(relay *core.Relay, m *metrics, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := tokenFrom(r)
		if token == "" && r.Body != nil {
			var req deleteRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			if err != nil && !errors.Is(err, io.EOF) {
				m.recordOp("delete", "invalid")
				writeError(w, http.StatusBadRequest, "invalid request")
				return
			}
			token = req.Token
		}
		if err := relay.Delete(r.Context(), token); err != nil {
			failRequest(w, r, m, logger, "delete", err)
			return
		}
		m.recordOp("delete", "ok")
		writeJSON(w, http.StatusOK, deleteResponse{OK: true, Deleted: true})
	}
}

// tokenFrom reads the token from the query string, falling back to the
// X-Selfie-Token header.
func tokenFrom(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	return r.Header.Get(tokenHeader)
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// failRequest maps relay errors to responses. Validation and allowlist
// rejections are client errors; anything else is a store failure.
func failRequest(w http.ResponseWriter, r *http.Request, m *metrics, logger zerolog.Logger, op string, err error) {
	switch {
	case errors.Is(err, core.ErrMissingToken), errors.Is(err, core.ErrMissingCode):
		m.recordOp(op, "invalid")
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrTokenNotAllowed):
		m.recordOp(op, "forbidden")
		writeError(w, http.StatusForbidden, err.Error())
	default:
		m.recordOp(op, "error")
		logger.Error().
			Err(err).
			Str("op", op).
			Str("request_id", requestIDFrom(r.Context())).
			Msg("store operation failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{OK: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
