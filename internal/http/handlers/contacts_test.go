package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contactbook-backend/internal/data/aggregates"
	"github.com/yungbote/contactbook-backend/internal/data/repos"
	repotest "github.com/yungbote/contactbook-backend/internal/data/repos/testutil"
	"github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/http/response"
	"github.com/yungbote/contactbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/contactbook-backend/internal/platform/keylock"
	"github.com/yungbote/contactbook-backend/internal/services"
)

const testUserHeader = "X-Test-User"

// newContactRouter serves the contact routes against a SQLite database. The
// identity is taken from testUserHeader so tests can act as several users.
func newContactRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := repotest.DB(t)
	log := repotest.Logger(t)
	addressRepo := repos.NewAddressRepo(db, log)
	phoneRepo := repos.NewPhoneRepo(db, log)
	base := aggregates.BaseDeps{DB: db, Log: log, Locker: keylock.New()}
	summary := aggregates.NewPhoneSummaryAggregator(aggregates.PhoneSummaryDeps{Base: base, Addresses: addressRepo, Phones: phoneRepo})
	svc := services.NewContactService(
		log,
		aggregates.NewAddressStore(aggregates.AddressStoreDeps{Base: base, Addresses: addressRepo, Phones: phoneRepo}),
		aggregates.NewPhoneStore(aggregates.PhoneStoreDeps{Base: base, Addresses: addressRepo, Phones: phoneRepo, Summary: summary}),
		summary,
	)
	h := NewContactHandler(log, svc)

	r := gin.New()
	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		if user := c.GetHeader(testUserHeader); user != "" {
			c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), user))
		}
		c.Next()
	})
	api.GET("/addresses", h.ListAddresses)
	api.POST("/addresses", h.CreateAddress)
	api.POST("/addresses/recompute", h.RecomputeSummaries)
	api.GET("/addresses/:id", h.GetAddress)
	api.PATCH("/addresses/:id", h.EditAddress)
	api.DELETE("/addresses/:id", h.DeleteAddress)
	api.GET("/addresses/:id/phones", h.ListPhones)
	api.POST("/addresses/:id/phones", h.AddPhone)
	api.GET("/phones/:id", h.GetPhone)
	api.PATCH("/phones/:id", h.EditPhone)
	api.DELETE("/phones/:id", h.DeletePhone)
	return r
}

func do(t *testing.T, r *gin.Engine, user, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(testUserHeader, user)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status: want=%d got=%d body=%s", status, rec.Code, rec.Body.String())
	}
}

func wantErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	wantStatus(t, rec, status)
	env := decode[response.ErrorEnvelope](t, rec)
	if env.Error.Code != code {
		t.Fatalf("error code: want=%q got=%q body=%s", code, env.Error.Code, rec.Body.String())
	}
}

func TestContactHandlerAddressAndPhoneFlow(t *testing.T) {
	r := newContactRouter(t)
	const u = "u@example.com"

	rec := do(t, r, u, http.MethodPost, "/api/addresses",
		`{"first":" Ann ","last":"Lee","owner_id":"someone@else","phone_summary":"forged"}`)
	wantStatus(t, rec, http.StatusCreated)
	created := decode[struct{ Address domain.Address }](t, rec).Address
	if created.OwnerID != u || created.First != "Ann" || created.PhoneSummary != "" {
		t.Fatalf("create ignored body overrides incorrectly: %+v", created)
	}
	addrPath := "/api/addresses/" + created.ID.String()

	rec = do(t, r, u, http.MethodPost, addrPath+"/phones", `{"phone_number":"555-1000","kind":"home"}`)
	wantStatus(t, rec, http.StatusCreated)
	p1 := decode[struct{ Phone domain.Phone }](t, rec).Phone

	rec = do(t, r, u, http.MethodPost, addrPath+"/phones", `{"phone_number":"555-2000","kind":"work"}`)
	wantStatus(t, rec, http.StatusCreated)

	rec = do(t, r, u, http.MethodGet, addrPath, "")
	wantStatus(t, rec, http.StatusOK)
	got := decode[struct{ Address domain.Address }](t, rec).Address
	if got.PhoneSummary != "555-1000 (home), 555-2000 (work)" {
		t.Fatalf("summary after adds: %q", got.PhoneSummary)
	}

	rec = do(t, r, u, http.MethodPatch, "/api/phones/"+p1.ID.String(), `{"phone_number":"555-1111","kind":"cell"}`)
	wantStatus(t, rec, http.StatusOK)

	rec = do(t, r, u, http.MethodGet, addrPath+"/phones", "")
	wantStatus(t, rec, http.StatusOK)
	phones := decode[struct{ Phones []domain.Phone }](t, rec).Phones
	if len(phones) != 2 || phones[0].PhoneNumber != "555-1111" {
		t.Fatalf("phones after edit: %+v", phones)
	}

	rec = do(t, r, u, http.MethodGet, "/api/addresses", "")
	wantStatus(t, rec, http.StatusOK)
	list := decode[struct{ Addresses []domain.Address }](t, rec).Addresses
	if len(list) != 1 || list[0].PhoneSummary != "555-1111 (cell), 555-2000 (work)" {
		t.Fatalf("list after edit: %+v", list)
	}

	rec = do(t, r, u, http.MethodDelete, "/api/phones/"+p1.ID.String(), "")
	wantStatus(t, rec, http.StatusNoContent)
	rec = do(t, r, u, http.MethodGet, "/api/phones/"+p1.ID.String(), "")
	wantErrorCode(t, rec, http.StatusNotFound, "not_found")

	rec = do(t, r, u, http.MethodPatch, addrPath, `{"first":"Anne","last":"Lee"}`)
	wantStatus(t, rec, http.StatusOK)
	if got := decode[struct{ Address domain.Address }](t, rec).Address; got.First != "Anne" || got.PhoneSummary != "555-2000 (work)" {
		t.Fatalf("edit address: %+v", got)
	}

	rec = do(t, r, u, http.MethodPost, "/api/addresses/recompute", "")
	wantStatus(t, rec, http.StatusOK)
	if list := decode[struct{ Addresses []domain.Address }](t, rec).Addresses; len(list) != 1 {
		t.Fatalf("recompute: %+v", list)
	}

	rec = do(t, r, u, http.MethodDelete, addrPath, "")
	wantStatus(t, rec, http.StatusNoContent)
	rec = do(t, r, u, http.MethodGet, addrPath, "")
	wantErrorCode(t, rec, http.StatusNotFound, "not_found")
}

func TestContactHandlerErrorMapping(t *testing.T) {
	r := newContactRouter(t)

	rec := do(t, r, "u@example.com", http.MethodPost, "/api/addresses", `{"first":"Ann","last":"Lee"}`)
	wantStatus(t, rec, http.StatusCreated)
	addrPath := "/api/addresses/" + decode[struct{ Address domain.Address }](t, rec).Address.ID.String()

	cases := []struct {
		name   string
		user   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"no identity", "", http.MethodGet, "/api/addresses", "", http.StatusUnauthorized, "unauthenticated"},
		{"bad id", "u@example.com", http.MethodGet, "/api/addresses/not-a-uuid", "", http.StatusBadRequest, "invalid_id"},
		{"bad body", "u@example.com", http.MethodPost, "/api/addresses", `[1,2`, http.StatusBadRequest, "invalid_request"},
		{"blank first", "u@example.com", http.MethodPost, "/api/addresses", `{"first":"  ","last":"Lee"}`, http.StatusBadRequest, "validation"},
		{"missing address", "u@example.com", http.MethodGet, "/api/addresses/00000000-0000-0000-0000-000000000001", "", http.StatusNotFound, "not_found"},
		{"other user's address", "u2@example.com", http.MethodGet, addrPath, "", http.StatusForbidden, "forbidden"},
		{"other user's phones", "u2@example.com", http.MethodPost, addrPath + "/phones", `{"phone_number":"1","kind":"home"}`, http.StatusForbidden, "forbidden"},
		{"blank kind", "u@example.com", http.MethodPost, addrPath + "/phones", `{"phone_number":"555","kind":""}`, http.StatusBadRequest, "validation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, r, tc.user, tc.method, tc.path, tc.body)
			wantErrorCode(t, rec, tc.status, tc.code)
			if tc.status < 500 && strings.Contains(rec.Body.String(), "aggregate ") {
				t.Fatalf("tag chain leaked into public message: %s", rec.Body.String())
			}
		})
	}
}
