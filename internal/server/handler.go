package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cleverdevil/pseudonym/internal/model"
	"github.com/cleverdevil/pseudonym/internal/resolver"
)

// notFound reports whether err means "no identity there" to a caller.
func notFound(err error) bool {
	return errors.Is(err, resolver.ErrNotFound) ||
		errors.Is(err, model.ErrInvalidURL) ||
		errors.Is(err, model.ErrInvalidDomain)
}

// handleIdentity resolves ?url= and returns its identity record. ?force=1
// bypasses the freshness check.
func (s *Server) handleIdentity(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "missing url parameter")
		return
	}
	force := r.URL.Query().Get("force") == "1"

	identity, err := s.resolver.Resolve(r.Context(), rawURL, force)
	if err != nil {
		s.respondResolveError(w, r, err, rawURL)
		return
	}
	writeJSON(w, http.StatusOK, model.NewRecord(identity))
}

// handleDomain resolves a bare domain on the legacy path and returns its
// domain record.
func (s *Server) handleDomain(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	identity, err := s.resolver.ResolveDomain(r.Context(), domain, false)
	if err != nil {
		s.respondResolveError(w, r, err, domain)
		return
	}

	// ResolveDomain succeeded, so the path parameter is a valid domain.
	dn, err := model.NewDomainName(domain)
	if err != nil {
		s.respondResolveError(w, r, err, domain)
		return
	}
	writeJSON(w, http.StatusOK, model.NewDomainRecord(dn, identity))
}

// handleDomainPlatform returns one pseudonym of a domain's identity. The
// platform name is matched case-insensitively.
func (s *Server) handleDomainPlatform(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	platform := chi.URLParam(r, "platform")

	identity, err := s.resolver.ResolveDomain(r.Context(), domain, false)
	if err != nil {
		s.respondResolveError(w, r, err, domain)
		return
	}

	p := identity.PseudonymByName(platform)
	if p == nil {
		writeError(w, http.StatusNotFound, "no pseudonym for platform "+platform)
		return
	}
	writeJSON(w, http.StatusOK, model.PseudonymRecord{
		Target:   p.Platform.String(),
		URL:      p.URL,
		Username: p.Username,
	})
}

// handleSearch runs a full-text search and returns matching identity
// records.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")

	records, err := s.searcher.Search(r.Context(), term)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "search failed",
			slog.String("request_id", RequestID(r.Context())),
			slog.String("term", term),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if records == nil {
		records = []*model.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

type transformRequest struct {
	Content string `json:"content"`
}

// handleTransform expands mention markers in a JSON request body.
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondTransform(w, r, req.Content)
}

// handleTransformQuery is the query-string form of handleTransform, kept
// for older callers that pass content as a parameter.
func (s *Server) handleTransformQuery(w http.ResponseWriter, r *http.Request) {
	s.respondTransform(w, r, r.URL.Query().Get("content"))
}

func (s *Server) respondTransform(w http.ResponseWriter, r *http.Request, content string) {
	if content == "" {
		writeError(w, http.StatusBadRequest, "missing content")
		return
	}
	writeJSON(w, http.StatusOK, s.transformer.Transform(r.Context(), content))
}

func (s *Server) respondResolveError(w http.ResponseWriter, r *http.Request, err error, subject string) {
	if notFound(err) {
		writeError(w, http.StatusNotFound, "no identity found for "+subject)
		return
	}
	s.logger.ErrorContext(r.Context(), "resolution failed",
		slog.String("request_id", RequestID(r.Context())),
		slog.String("subject", subject),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
