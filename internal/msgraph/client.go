package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// Client is an authenticated Microsoft Graph API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Graph API client whose refreshed tokens are written
// back to store.
func NewClient(ctx context.Context, tok *oauth2.Token, cfg *oauth2.Config, store *TokenStore) *Client {
	ts := cfg.TokenSource(ctx, tok)
	return NewClientWithHTTP(oauth2.NewClient(ctx, &savingTokenSource{ts: ts, store: store}), graphBaseURL)
}

// NewClientWithHTTP creates a client that sends requests through hc to
// baseURL.
func NewClientWithHTTP(hc *http.Client, baseURL string) *Client {
	return &Client{httpClient: hc, baseURL: baseURL}
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts    oauth2.TokenSource
	store *TokenStore
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(tok); err != nil {
		zap.L().Warn("could not cache refreshed token", zap.Error(err))
	}
	return tok, nil
}

// CalendarEvent represents a Microsoft Graph calendar event.
type CalendarEvent struct {
	ID          string        `json:"id"`
	Subject     string        `json:"subject"`
	BodyPreview string        `json:"bodyPreview"`
	IsAllDay    bool          `json:"isAllDay"`
	IsCancelled bool          `json:"isCancelled"`
	Sensitivity string        `json:"sensitivity"` // "normal", "personal", "private", "confidential"
	ShowAs      string        `json:"showAs"`      // "free", "tentative", "busy", "oof", "workingElsewhere", "unknown"
	Start       EventDateTime `json:"start"`
	End         EventDateTime `json:"end"`
	Location    struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
}

// EventDateTime is a Graph dateTimeTimeZone value.
type EventDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// calendarViewPage is one page of a calendarView listing.
type calendarViewPage struct {
	Value    []CalendarEvent `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

// StatusError is returned when Graph answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graph API error %d: %s", e.Code, e.Body)
}

// pageSize is the $top value requested per calendarView page.
const pageSize = 100

// GetCalendarView returns the events overlapping the import period
// [from, to), in the order Graph lists them. Event times are rendered in
// timezone (IANA name) or in UTC when it is empty, matching what
// MapEventToEntry expects.
func (c *Client) GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]CalendarEvent, error) {
	q := url.Values{}
	q.Set("startDateTime", from.UTC().Format(time.RFC3339))
	q.Set("endDateTime", to.UTC().Format(time.RFC3339))
	q.Set("$top", strconv.Itoa(pageSize))
	next := c.baseURL + "/me/calendarView?" + q.Encode()

	var events []CalendarEvent
	for n := 1; next != ""; n++ {
		page, err := c.fetchPage(ctx, next, timezone)
		if err != nil {
			return nil, fmt.Errorf("calendar page %d: %w", n, err)
		}
		zap.L().Debug("calendar page fetched",
			zap.Int("page", n),
			zap.Int("events", len(page.Value)),
			zap.Bool("more", page.NextLink != ""))
		events = append(events, page.Value...)
		next = page.NextLink
	}
	return events, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL, timezone string) (calendarViewPage, error) {
	var page calendarViewPage

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return page, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if timezone != "" {
		req.Header.Set("Prefer", fmt.Sprintf(`outlook.timezone="%s"`, timezone))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return page, fmt.Errorf("graph request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return page, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return page, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return page, fmt.Errorf("decoding response: %w", err)
	}
	return page, nil
}
