package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"dayplan/internal/google"
	"dayplan/internal/logging"
)

// GoogleStore implements Store against the Google Calendar API. Services are
// created lazily per account and cached for the lifetime of the store, so
// the refreshed OAuth token is reused across invocations.
type GoogleStore struct {
	conf     *oauth2.Config
	provider google.TokenProvider
	logger   *slog.Logger

	services map[string]*calendar.Service
}

// NewGoogleStore creates a calendar store with OAuth2 authentication.
func NewGoogleStore(conf *oauth2.Config, provider google.TokenProvider, logger *slog.Logger) *GoogleStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoogleStore{
		conf:     conf,
		provider: provider,
		logger:   logger,
		services: make(map[string]*calendar.Service),
	}
}

// HasToken reports whether a stored OAuth token exists for the account.
func (s *GoogleStore) HasToken(account string) bool {
	if s.provider == nil {
		return false
	}
	return s.provider.HasTokenForAccount(account)
}

// service returns the cached Calendar service for the account, creating and
// authenticating it on first use.
func (s *GoogleStore) service(ctx context.Context, account string) (*calendar.Service, error) {
	if svc, ok := s.services[account]; ok {
		return svc, nil
	}

	token, err := s.provider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	tokenSource := s.conf.TokenSource(ctx, token)
	client := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service for account %s: %w", account, err)
	}

	s.services[account] = svc
	return svc, nil
}

// List returns the events starting on the given date for one account.
func (s *GoogleStore) List(ctx context.Context, account, date string) ([]Event, error) {
	svc, err := s.service(ctx, account)
	if err != nil {
		return nil, err
	}

	timeMin := date + "T00:00:00" + FixedOffset
	timeMax := date + "T23:59:59" + FixedOffset

	result, err := svc.Events.List("primary").
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events for account %s: %w", account, err)
	}

	events := make([]Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, fromAPIEvent(item, account))
	}

	s.logger.Debug("listed events",
		logging.Operation("calendar.list"),
		logging.Account(account),
		slog.Int("count", len(events)))

	return events, nil
}

// Search returns events matching the query text within the window.
func (s *GoogleStore) Search(ctx context.Context, account, query string, timeMin, timeMax time.Time) ([]Event, error) {
	svc, err := s.service(ctx, account)
	if err != nil {
		return nil, err
	}

	result, err := svc.Events.List("primary").
		Q(query).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search events for account %s: %w", account, err)
	}

	events := make([]Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, fromAPIEvent(item, account))
	}

	s.logger.Debug("searched events",
		logging.Operation("calendar.search"),
		logging.Account(account),
		slog.Int("count", len(events)))

	return events, nil
}

// Insert books a one-hour event and returns its HTML link.
func (s *GoogleStore) Insert(ctx context.Context, account, title, start string) (string, error) {
	svc, err := s.service(ctx, account)
	if err != nil {
		return "", err
	}

	startTime, err := time.Parse(InsertLayout, start)
	if err != nil {
		return "", fmt.Errorf("invalid start time %q: %w", start, err)
	}
	endTime := startTime.Add(time.Hour)

	event := &calendar.Event{
		Summary: title,
		Start: &calendar.EventDateTime{
			DateTime: startTime.Format("2006-01-02T15:04:05"),
			TimeZone: InsertTimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: endTime.Format("2006-01-02T15:04:05"),
			TimeZone: InsertTimeZone,
		},
	}

	created, err := svc.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event for account %s: %w", account, err)
	}

	s.logger.Info("created event",
		logging.Operation("calendar.insert"),
		logging.Account(account),
		slog.String("summary", title))

	return created.HtmlLink, nil
}

var _ Store = (*GoogleStore)(nil)
