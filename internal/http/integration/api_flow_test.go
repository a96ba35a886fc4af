package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/userhub/internal/config"
	apphttp "github.com/geocoder89/userhub/internal/http"
	"github.com/geocoder89/userhub/internal/repo/memory"
)

func testConfig(variant string) config.Config {
	return config.Config{
		Env:             "test",
		Port:            0,
		Variant:         variant,
		CORSAllowAll:    true,
		ListCacheTTL:    50 * time.Millisecond,
		MaxBodyBytes:    1 << 20,
		LoginRateLimit:  100,
		LoginRateWindow: time.Minute,
	}
}

func setupTestRouter(t *testing.T, variant string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return apphttp.NewRouter(logger, testConfig(variant), memory.NewSeededRepo())
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, reader)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestCreateThenFetchRoundTrip(t *testing.T) {
	r := setupTestRouter(t, "v1")

	w := doJSON(t, r, http.MethodPost, "/api/users", `{"gmail":"x@y.com","password":"p","name":"X","phone":"555"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("create got %d, body=%s", w.Code, w.Body.String())
	}

	var created map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to unmarshal create response: %v", err)
	}

	if created["id"] != "user3" {
		t.Fatalf("got id %v, want user3", created["id"])
	}

	w2 := doJSON(t, r, http.MethodGet, "/api/users/user3", "")

	if w2.Code != http.StatusOK {
		t.Fatalf("fetch got %d, body=%s", w2.Code, w2.Body.String())
	}

	var fetched map[string]any
	if err := json.Unmarshal(w2.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("failed to unmarshal fetch response: %v", err)
	}

	for _, field := range []string{"id", "gmail", "name", "phone", "created_at"} {
		if fetched[field] != created[field] {
			t.Fatalf("field %q: fetched %v, created %v", field, fetched[field], created[field])
		}
	}
}

func TestSequentialCreatesHaveNoIdGaps(t *testing.T) {
	r := setupTestRouter(t, "v1")

	for _, want := range []string{"user3", "user4", "user5"} {
		w := doJSON(t, r, http.MethodPost, "/api/users", `{"gmail":"a@b.com","password":"p","name":"A","phone":"1"}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("create got %d, body=%s", w.Code, w.Body.String())
		}

		var resp struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if resp.ID != want {
			t.Fatalf("got id %q, want %q", resp.ID, want)
		}
	}
}

func TestListGrowsByOnePerCreate(t *testing.T) {
	r := setupTestRouter(t, "v1")

	listLen := func() int {
		w := doJSON(t, r, http.MethodGet, "/api/users", "")

		if w.Code != http.StatusOK {
			t.Fatalf("list got %d, body=%s", w.Code, w.Body.String())
		}

		var items []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
			t.Fatalf("failed to unmarshal list: %v", err)
		}

		return len(items)
	}

	if got := listLen(); got != 2 {
		t.Fatalf("seeded list length %d, want 2", got)
	}

	doJSON(t, r, http.MethodPost, "/api/users", `{"gmail":"a@b.com","password":"p","name":"A","phone":"1"}`)

	if got := listLen(); got != 3 {
		t.Fatalf("list length after create %d, want 3", got)
	}
}

func TestLoginRefreshProfileFlow(t *testing.T) {
	r := setupTestRouter(t, "v1")

	w := doJSON(t, r, http.MethodPost, "/api/login", `{"gmail":"john@example.com","password":"hashed_password_123"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("login got %d, body=%s", w.Code, w.Body.String())
	}

	var login struct {
		Success      bool   `json:"success"`
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatalf("failed to unmarshal login response: %v", err)
	}

	if !login.Success || login.Token == "" || login.RefreshToken == "" {
		t.Fatalf("login response incomplete: %+v", login)
	}

	// refresh with the issued token
	w2 := doJSON(t, r, http.MethodPost, "/api/refresh-token", `{"refresh_token":"`+login.RefreshToken+`"}`)

	if w2.Code != http.StatusOK {
		t.Fatalf("refresh got %d, body=%s", w2.Code, w2.Body.String())
	}

	// profile with the issued token
	w3 := doJSON(t, r, http.MethodGet, "/api/profile?token="+login.Token, "")

	if w3.Code != http.StatusOK {
		t.Fatalf("profile got %d, body=%s", w3.Code, w3.Body.String())
	}

	var profile map[string]any
	if err := json.Unmarshal(w3.Body.Bytes(), &profile); err != nil {
		t.Fatalf("failed to unmarshal profile: %v", err)
	}

	// profile always returns the demo record, whoever logged in
	if profile["id"] != "user1" {
		t.Fatalf("profile id %v, want user1", profile["id"])
	}
}

func TestLoginRejections(t *testing.T) {
	r := setupTestRouter(t, "v1")

	tests := []struct {
		name string
		body string
	}{
		{name: "wrong_password", body: `{"gmail":"john@example.com","password":"nope"}`},
		{name: "unknown_contact", body: `{"gmail":"ghost@example.com","password":"hashed_password_123"}`},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/login", tt.body)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("got %d, want 401, body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetUserMissingIn404InBothVariants(t *testing.T) {
	for _, variant := range []string{"v1", "v2"} {
		variant := variant

		t.Run(variant, func(t *testing.T) {
			r := setupTestRouter(t, variant)

			w := doJSON(t, r, http.MethodGet, "/api/users/user999", "")

			if w.Code != http.StatusNotFound {
				t.Fatalf("got %d, want 404, body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestVariantFieldDrift(t *testing.T) {
	fields := map[string][]string{
		"v1": {"gmail", "phone"},
		"v2": {"email", "mobile"},
	}

	for variant, want := range fields {
		variant, want := variant, want

		t.Run(variant, func(t *testing.T) {
			r := setupTestRouter(t, variant)

			w := doJSON(t, r, http.MethodGet, "/api/users/user1", "")

			if w.Code != http.StatusOK {
				t.Fatalf("got %d, body=%s", w.Code, w.Body.String())
			}

			var resp map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}

			for _, f := range want {
				if _, ok := resp[f]; !ok {
					t.Fatalf("variant %s missing field %q: %v", variant, f, resp)
				}
			}
		})
	}
}

// The second contract refreshes through a query parameter with no
// request body; the JSON content-type gate must not trip on it.
func TestV2RefreshByQueryParam(t *testing.T) {
	r := setupTestRouter(t, "v2")

	w := doJSON(t, r, http.MethodPost, "/api/login", `{"email":"john@example.com","password":"hashed_password_123"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("login got %d, body=%s", w.Code, w.Body.String())
	}

	var login struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatalf("failed to unmarshal login response: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/refresh-token?refresh_token="+login.RefreshToken, nil)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	if w2.Code != http.StatusOK {
		t.Fatalf("refresh got %d, body=%s", w2.Code, w2.Body.String())
	}

	var refreshed map[string]any
	if err := json.Unmarshal(w2.Body.Bytes(), &refreshed); err != nil {
		t.Fatalf("failed to unmarshal refresh response: %v", err)
	}

	if refreshed["token"] == "" || refreshed["refreshToken"] == "" {
		t.Fatalf("refresh response incomplete: %v", refreshed)
	}
}

func TestStatusCountsUsers(t *testing.T) {
	r := setupTestRouter(t, "v1")

	w := doJSON(t, r, http.MethodGet, "/api/status", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status     string `json:"status"`
		Version    string `json:"version"`
		UsersCount int    `json:"users_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal status: %v", err)
	}

	if resp.UsersCount != 2 {
		t.Fatalf("users_count %d, want 2", resp.UsersCount)
	}

	doJSON(t, r, http.MethodPost, "/api/users", `{"gmail":"a@b.com","password":"p","name":"A","phone":"1"}`)

	w2 := doJSON(t, r, http.MethodGet, "/api/status", "")

	if err := json.Unmarshal(w2.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal status: %v", err)
	}

	if resp.UsersCount != 3 {
		t.Fatalf("users_count after create %d, want 3", resp.UsersCount)
	}
}

func TestCORSAllowAll(t *testing.T) {
	r := setupTestRouter(t, "v1")

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://anywhere.example")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight got %d", w.Code)
	}

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("got allow-origin %q, want *", got)
	}
}

func TestNonJSONBodyRejected(t *testing.T) {
	r := setupTestRouter(t, "v1")

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString("gmail=x@y.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("got %d, want 415, body=%s", w.Code, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupTestRouter(t, "v1")

	w := doJSON(t, r, http.MethodGet, "/metrics", "")

	if w.Code != http.StatusOK {
		t.Fatalf("metrics got %d", w.Code)
	}
}
