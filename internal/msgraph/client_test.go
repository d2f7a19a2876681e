package msgraph_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/daily-work-report/internal/msgraph"
)

func TestGetCalendarView_FollowsNextLink(t *testing.T) {
	var srv *httptest.Server
	var prefer string
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"value":[{"id":"b","subject":"Second"}]}`)
			return
		}
		prefer = r.Header.Get("Prefer")
		if !strings.HasPrefix(r.URL.Path, "/me/calendarView") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"value":[{"id":"a","subject":"First"}],"@odata.nextLink":"%s/me/calendarView?page=2"}`, srv.URL)
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	from := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	events, err := c.GetCalendarView(context.Background(), from, from.AddDate(0, 0, 1), "Europe/Berlin")
	if err != nil {
		t.Fatalf("GetCalendarView: %v", err)
	}
	if len(events) != 2 || events[0].ID != "a" || events[1].ID != "b" {
		t.Errorf("events = %+v, want a then b", events)
	}
	if prefer != `outlook.timezone="Europe/Berlin"` {
		t.Errorf("Prefer header = %q", prefer)
	}
}

func TestGetCalendarView_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"InvalidAuthenticationToken"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	_, err := c.GetCalendarView(context.Background(), time.Now(), time.Now(), "")
	var statusErr *msgraph.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusUnauthorized || !strings.Contains(statusErr.Body, "InvalidAuthenticationToken") {
		t.Errorf("StatusError = %+v", statusErr)
	}
	if !strings.Contains(err.Error(), "calendar page 1") {
		t.Errorf("err = %v, want page context", err)
	}
}

func TestGetCalendarView_QueryCoversImportPeriod(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		fmt.Fprint(w, `{"value":[]}`)
	}))
	defer srv.Close()

	berlin := time.FixedZone("CET", 3600)
	from := time.Date(2025, 6, 2, 0, 0, 0, 0, berlin)
	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	events, err := c.GetCalendarView(context.Background(), from, from.AddDate(0, 0, 5), "")
	if err != nil {
		t.Fatalf("GetCalendarView: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events = %+v, want none", events)
	}
	if got := query["startDateTime"]; len(got) != 1 || got[0] != "2025-06-01T23:00:00Z" {
		t.Errorf("startDateTime = %v", got)
	}
	if got := query["endDateTime"]; len(got) != 1 || got[0] != "2025-06-06T23:00:00Z" {
		t.Errorf("endDateTime = %v", got)
	}
	if got := query["$top"]; len(got) != 1 || got[0] != "100" {
		t.Errorf("$top = %v", got)
	}
}

func TestTokenStoreRoundTrip(t *testing.T) {
	base := t.TempDir()
	store := msgraph.NewTokenStore(base)

	tok, err := store.Load()
	if err != nil || tok != nil {
		t.Fatalf("Load on empty store = %v, %v; want nil, nil", tok, err)
	}

	want := &oauth2.Token{AccessToken: "at", RefreshToken: "rt", TokenType: "Bearer"}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AccessToken != "at" || got.RefreshToken != "rt" {
		t.Errorf("token = %+v", got)
	}
	if _, err := os.Stat(filepath.Join(base, "auth", "msgraph_tokens.json")); err != nil {
		t.Errorf("token file not written: %v", err)
	}
}

func TestAuthenticate_UsesValidCachedToken(t *testing.T) {
	store := msgraph.NewTokenStore(t.TempDir())
	cached := &oauth2.Token{AccessToken: "at", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}
	if err := store.Save(cached); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var prompt strings.Builder
	tok, cfg, err := msgraph.Authenticate(context.Background(), store, "common", "client", &prompt)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if tok.AccessToken != "at" {
		t.Errorf("AccessToken = %q, want cached token", tok.AccessToken)
	}
	if cfg.ClientID != "client" || !strings.Contains(cfg.Endpoint.TokenURL, "/common/") {
		t.Errorf("config = %+v", cfg)
	}
	if prompt.Len() != 0 {
		t.Errorf("sign-in prompted despite a valid token:\n%s", prompt.String())
	}
}

func TestTokenStoreLoad_CorruptFile(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "auth", "msgraph_tokens.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	tok, err := msgraph.NewTokenStore(base).Load()
	if err == nil || tok != nil {
		t.Fatalf("Load = %v, %v; want error", tok, err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file to delete", err)
	}
}
