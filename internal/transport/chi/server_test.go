package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/groupdex/groupdex/internal/domain"
	domgroup "github.com/groupdex/groupdex/internal/domain/group"
	domlink "github.com/groupdex/groupdex/internal/domain/link"
	adminuc "github.com/groupdex/groupdex/internal/usecase/admin"
	healthuc "github.com/groupdex/groupdex/internal/usecase/health"
)

// --- Stubs ---

type stubGroups struct {
	group   domgroup.Group
	list    []domgroup.Group
	err     error
	gotQuery string
}

func (s *stubGroups) Create(_ context.Context, _, _, _ string) (domgroup.Group, error) {
	return s.group, s.err
}

func (s *stubGroups) Update(_ context.Context, _ int64, _, _, _ string) (domgroup.Group, error) {
	return s.group, s.err
}

func (s *stubGroups) Delete(_ context.Context, _ int64) error { return s.err }

func (s *stubGroups) Pin(_ context.Context, _ int64, _ bool) (domgroup.Group, error) {
	return s.group, s.err
}

func (s *stubGroups) List(_ context.Context, query string) ([]domgroup.Group, error) {
	s.gotQuery = query
	return s.list, s.err
}

type stubLinks struct {
	link domlink.Link
	list []domlink.Link
	err  error
}

func (s *stubLinks) Create(_ context.Context, _, _, _ string) (domlink.Link, error) {
	return s.link, s.err
}

func (s *stubLinks) Update(_ context.Context, _ int64, _, _, _ string) (domlink.Link, error) {
	return s.link, s.err
}

func (s *stubLinks) Delete(_ context.Context, _ int64) error { return s.err }

func (s *stubLinks) List(_ context.Context) ([]domlink.Link, error) { return s.list, s.err }

type stubAdmin struct {
	loginErr error
	status   adminuc.Status
	left     int
}

func (s *stubAdmin) Login(_ string) error     { return s.loginErr }
func (s *stubAdmin) Status() adminuc.Status   { return s.status }
func (s *stubAdmin) AttemptsLeft() int        { return s.left }

type stubHealth struct {
	report healthuc.Report
}

func (s *stubHealth) Check(_ context.Context) healthuc.Report { return s.report }

func newTestRouter(groups *stubGroups, links *stubLinks, admin *stubAdmin, health *stubHealth) http.Handler {
	if groups == nil {
		groups = &stubGroups{}
	}
	if links == nil {
		links = &stubLinks{}
	}
	if admin == nil {
		admin = &stubAdmin{}
	}
	if health == nil {
		health = &stubHealth{report: healthuc.Report{Status: healthuc.Healthy}}
	}

	srv := NewServer(groups, links, admin, health, zap.NewNop())
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// --- Tests ---

func TestListGroups_PassesQuery(t *testing.T) {
	groups := &stubGroups{list: []domgroup.Group{
		domgroup.Reconstruct(1, "Soccer Fans", "weekly matches", "", false, 1000),
	}}
	h := newTestRouter(groups, nil, nil, nil)

	rr := doRequest(t, h, "GET", "/api/groups?q=soccer", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if groups.gotQuery != "soccer" {
		t.Errorf("expected query passed through, got %q", groups.gotQuery)
	}

	var items []groupResponse
	if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Soccer Fans" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestCreateGroup_Created(t *testing.T) {
	groups := &stubGroups{group: domgroup.Reconstruct(5, "Chess Society", "", "", false, 2000)}
	h := newTestRouter(groups, nil, nil, nil)

	rr := doRequest(t, h, "POST", "/api/groups", `{"name":"Chess Society"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}

	var resp groupResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != 5 {
		t.Errorf("expected id 5, got %d", resp.ID)
	}
}

func TestCreateGroup_ValidationError(t *testing.T) {
	groups := &stubGroups{err: domain.ErrInvalidInput}
	h := newTestRouter(groups, nil, nil, nil)

	rr := doRequest(t, h, "POST", "/api/groups", `{"name":"ab"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var errResp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("expected %s, got %s", codeValidationFailed, errResp.Code)
	}
}

func TestCreateGroup_BadJSON(t *testing.T) {
	h := newTestRouter(nil, nil, nil, nil)

	rr := doRequest(t, h, "POST", "/api/groups", `{`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUpdateGroup_NotFound(t *testing.T) {
	groups := &stubGroups{err: domain.ErrGroupNotFound}
	h := newTestRouter(groups, nil, nil, nil)

	rr := doRequest(t, h, "PUT", "/api/groups/9", `{"name":"New Name"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUpdateGroup_BadID(t *testing.T) {
	h := newTestRouter(nil, nil, nil, nil)

	rr := doRequest(t, h, "PUT", "/api/groups/abc", `{"name":"New Name"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestDeleteGroup_NoContent(t *testing.T) {
	h := newTestRouter(nil, nil, nil, nil)

	rr := doRequest(t, h, "DELETE", "/api/groups/3", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestPinGroup(t *testing.T) {
	groups := &stubGroups{group: domgroup.Reconstruct(2, "Book Club", "", "", true, 3000)}
	h := newTestRouter(groups, nil, nil, nil)

	rr := doRequest(t, h, "POST", "/api/groups/pin", `{"id":2,"pinned":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp groupResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Pinned {
		t.Error("expected pinned true in response")
	}
}

func TestCreateLink_Created(t *testing.T) {
	links := &stubLinks{link: domlink.Reconstruct(1, "Town Hall", "", "https://example.org", 1000)}
	h := newTestRouter(nil, links, nil, nil)

	rr := doRequest(t, h, "POST", "/api/links", `{"title":"Town Hall","url":"https://example.org"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
}

func TestDeleteLink_NotFound(t *testing.T) {
	links := &stubLinks{err: domain.ErrLinkNotFound}
	h := newTestRouter(nil, links, nil, nil)

	rr := doRequest(t, h, "DELETE", "/api/links/7", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestAdminLogin_Success(t *testing.T) {
	h := newTestRouter(nil, nil, &stubAdmin{}, nil)

	rr := doRequest(t, h, "POST", "/api/admin/login", `{"password":"secret"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestAdminLogin_WrongPassword_401WithAttempts(t *testing.T) {
	admin := &stubAdmin{loginErr: domain.ErrInvalidCredentials, left: 2}
	h := newTestRouter(nil, nil, admin, nil)

	rr := doRequest(t, h, "POST", "/api/admin/login", `{"password":"nope"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if !strings.Contains(errResp.Message, "2 attempts remaining") {
		t.Errorf("expected attempts in message, got %q", errResp.Message)
	}
}

func TestAdminLogin_Locked_403WithRemaining(t *testing.T) {
	admin := &stubAdmin{loginErr: domain.NewLocked(24 * time.Hour)}
	h := newTestRouter(nil, nil, admin, nil)

	rr := doRequest(t, h, "POST", "/api/admin/login", `{"password":"secret"}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	var errResp struct {
		Code             string `json:"code"`
		Message          string `json:"message"`
		RemainingSeconds int    `json:"remaining_seconds"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeLocked {
		t.Errorf("expected %s, got %s", codeLocked, errResp.Code)
	}
	if !strings.Contains(errResp.Message, "24 hours") {
		t.Errorf("expected hours in message, got %q", errResp.Message)
	}
	if errResp.RemainingSeconds != 24*60*60 {
		t.Errorf("expected 86400 remaining seconds, got %d", errResp.RemainingSeconds)
	}
}

func TestAdminStatus_Locked(t *testing.T) {
	admin := &stubAdmin{status: adminuc.Status{Locked: true, Remaining: 30 * time.Minute}}
	h := newTestRouter(nil, nil, admin, nil)

	rr := doRequest(t, h, "GET", "/api/admin/status", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp struct {
		Locked           bool `json:"locked"`
		RemainingSeconds int  `json:"remaining_seconds"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Locked || resp.RemainingSeconds != 1800 {
		t.Errorf("unexpected status: %+v", resp)
	}
}

func TestAdminStatus_Unlocked(t *testing.T) {
	admin := &stubAdmin{status: adminuc.Status{Attempts: 1}}
	h := newTestRouter(nil, nil, admin, nil)

	rr := doRequest(t, h, "GET", "/api/admin/status", "")

	var resp struct {
		Locked   bool `json:"locked"`
		Attempts int  `json:"attempts"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Locked || resp.Attempts != 1 {
		t.Errorf("unexpected status: %+v", resp)
	}
}

func TestHealthCheck_Degraded_503(t *testing.T) {
	health := &stubHealth{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
	}}
	h := newTestRouter(nil, nil, nil, health)

	rr := doRequest(t, h, "GET", "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestLockedMessage(t *testing.T) {
	cases := []struct {
		remaining time.Duration
		want      string
	}{
		{24 * time.Hour, "login locked, try again in 24 hours"},
		{90 * time.Minute, "login locked, try again in 2 hours"},
		{30 * time.Minute, "login locked, try again in 30 minutes"},
		{20 * time.Second, "login locked, try again in 1 minutes"},
	}
	for _, tc := range cases {
		if got := lockedMessage(tc.remaining); got != tc.want {
			t.Errorf("lockedMessage(%s) = %q, want %q", tc.remaining, got, tc.want)
		}
	}
}
