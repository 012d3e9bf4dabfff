// Package chi exposes the HTTP API over a chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/groupdex/groupdex/internal/domain"
	domgroup "github.com/groupdex/groupdex/internal/domain/group"
	domlink "github.com/groupdex/groupdex/internal/domain/link"
	adminuc "github.com/groupdex/groupdex/internal/usecase/admin"
	healthuc "github.com/groupdex/groupdex/internal/usecase/health"
)

// Error response codes returned in the JSON envelope.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeGroupNotFound    = "group_not_found"
	codeLinkNotFound     = "link_not_found"
	codeUnauthorized     = "unauthorized"
	codeLocked           = "locked"
	codeInternalError    = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// groupService is the slice of the group use case the server needs.
type groupService interface {
	Create(ctx context.Context, name, description, url string) (domgroup.Group, error)
	Update(ctx context.Context, id int64, name, description, url string) (domgroup.Group, error)
	Delete(ctx context.Context, id int64) error
	Pin(ctx context.Context, id int64, pinned bool) (domgroup.Group, error)
	List(ctx context.Context, query string) ([]domgroup.Group, error)
}

// linkService is the slice of the link use case the server needs.
type linkService interface {
	Create(ctx context.Context, title, description, url string) (domlink.Link, error)
	Update(ctx context.Context, id int64, title, description, url string) (domlink.Link, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domlink.Link, error)
}

// adminService guards the admin login.
type adminService interface {
	Login(password string) error
	Status() adminuc.Status
	AttemptsLeft() int
}

// healthService aggregates component checks.
type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server handles the HTTP API.
type Server struct {
	groups        groupService
	links         linkService
	admin         adminService
	health        healthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	groups groupService,
	links linkService,
	admin adminService,
	health healthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		groups: groups,
		links:  links,
		admin:  admin,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		lockedHandler,
		sentinelHandler(domain.ErrGroupNotFound, http.StatusNotFound, codeGroupNotFound),
		sentinelHandler(domain.ErrLinkNotFound, http.StatusNotFound, codeLinkNotFound),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, codeUnauthorized),
	}
	return s
}

// Routes mounts the API endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/api/groups", s.ListGroups)
	r.Post("/api/groups", s.CreateGroup)
	r.Put("/api/groups/{id}", s.UpdateGroup)
	r.Delete("/api/groups/{id}", s.DeleteGroup)
	r.Post("/api/groups/pin", s.PinGroup)

	r.Get("/api/links", s.ListLinks)
	r.Post("/api/links", s.CreateLink)
	r.Put("/api/links/{id}", s.UpdateLink)
	r.Delete("/api/links/{id}", s.DeleteLink)

	r.Post("/api/admin/login", s.AdminLogin)
	r.Get("/api/admin/status", s.AdminStatus)

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type groupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type groupResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Pinned      bool      `json:"pinned"`
	CreatedAt   time.Time `json:"created_at"`
}

type linkRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type linkResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListGroups handles GET /api/groups. The optional q parameter
// switches from the pinned-first directory listing to a fuzzy search.
func (s *Server) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]groupResponse, len(groups))
	for i := range groups {
		items[i] = groupToResponse(&groups[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateGroup handles POST /api/groups.
func (s *Server) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	g, err := s.groups.Create(r.Context(), req.Name, req.Description, req.URL)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, groupToResponse(&g))
}

// UpdateGroup handles PUT /api/groups/{id}.
func (s *Server) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	g, err := s.groups.Update(r.Context(), id, req.Name, req.Description, req.URL)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, groupToResponse(&g))
}

// DeleteGroup handles DELETE /api/groups/{id}.
func (s *Server) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.groups.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PinGroup handles POST /api/groups/pin.
func (s *Server) PinGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     int64 `json:"id"`
		Pinned bool  `json:"pinned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	g, err := s.groups.Pin(r.Context(), req.ID, req.Pinned)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, groupToResponse(&g))
}

// ListLinks handles GET /api/links.
func (s *Server) ListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.links.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]linkResponse, len(links))
	for i := range links {
		items[i] = linkToResponse(&links[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateLink handles POST /api/links.
func (s *Server) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	l, err := s.links.Create(r.Context(), req.Title, req.Description, req.URL)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, linkToResponse(&l))
}

// UpdateLink handles PUT /api/links/{id}.
func (s *Server) UpdateLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	l, err := s.links.Update(r.Context(), id, req.Title, req.Description, req.URL)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, linkToResponse(&l))
}

// DeleteLink handles DELETE /api/links/{id}.
func (s *Server) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.links.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdminLogin handles POST /api/admin/login.
func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.admin.Login(req.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, codeUnauthorized,
				fmt.Sprintf("invalid password, %d attempts remaining", s.admin.AttemptsLeft()))
			return
		}
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// AdminStatus handles GET /api/admin/status.
func (s *Server) AdminStatus(w http.ResponseWriter, r *http.Request) {
	st := s.admin.Status()
	if st.Locked {
		writeJSON(w, http.StatusOK, map[string]any{
			"locked":            true,
			"remaining_seconds": int(st.Remaining.Seconds()),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"locked":   false,
		"attempts": st.Attempts,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func groupToResponse(g *domgroup.Group) groupResponse {
	return groupResponse{
		ID:          g.ID(),
		Name:        g.Name(),
		Description: g.Description(),
		URL:         g.URL(),
		Pinned:      g.Pinned(),
		CreatedAt:   time.UnixMilli(g.CreatedAt()).UTC(),
	}
}

func linkToResponse(l *domlink.Link) linkResponse {
	return linkResponse{
		ID:          l.ID(),
		Title:       l.Title(),
		Description: l.Description(),
		URL:         l.URL(),
		CreatedAt:   time.UnixMilli(l.CreatedAt()).UTC(),
	}
}

// pathID parses the {id} route parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrGroupNotFound,
		domain.ErrLinkNotFound,
		domain.ErrInvalidInput,
		domain.ErrInvalidCredentials,
		domain.ErrLocked,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// lockedHandler handles ErrLocked with the remaining lockout time in
// the message and body.
func lockedHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrLocked) {
		return false
	}
	var le *domain.LockedError
	if errors.As(err, &le) {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"code":              codeLocked,
			"message":           lockedMessage(le.RetryAfter),
			"remaining_seconds": int(le.RetryAfter.Seconds()),
		})
		return true
	}
	writeError(w, http.StatusForbidden, codeLocked, msg)
	return true
}

// lockedMessage renders the remaining lockout in hours, or minutes
// when under an hour.
func lockedMessage(remaining time.Duration) string {
	if remaining >= time.Hour {
		hours := int(remaining.Round(time.Hour).Hours())
		return fmt.Sprintf("login locked, try again in %d hours", hours)
	}
	minutes := int(remaining.Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("login locked, try again in %d minutes", minutes)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
