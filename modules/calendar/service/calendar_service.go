package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bookly-api/core/config"
	"bookly-api/core/errors"
	"bookly-api/core/logger"
	"bookly-api/core/utils"
	bookingentity "bookly-api/modules/booking/entity"
	"bookly-api/modules/calendar/entity"
	"bookly-api/modules/calendar/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	calendarEventsScope = "https://www.googleapis.com/auth/calendar.events"
	calendarAPIBase     = "https://www.googleapis.com/calendar/v3"
	statePurpose        = "calendar_oauth_state"
	stateTTL            = 10 * time.Minute
)

type CalendarServiceInterface interface {
	ConnectURL(ctx context.Context, hostID uuid.UUID) (string, *errors.AppError)
	HandleCallback(ctx context.Context, state, code string) *errors.AppError
	GetStatus(ctx context.Context, hostID uuid.UUID) (*entity.CalendarConnection, *errors.AppError)
	Disconnect(ctx context.Context, hostID uuid.UUID) *errors.AppError

	// Collaborator surface consumed by the booking lifecycle
	CreateBookingEvent(ctx context.Context, hostID uuid.UUID, booking *bookingentity.Booking, title string, withMeet bool) (string, string, error)
	DeleteBookingEvent(ctx context.Context, hostID uuid.UUID, eventID string) error
}

type CalendarService struct {
	repo repository.CalendarRepositoryInterface

	// httpClient is swappable in tests
	httpClient *http.Client
}

func NewCalendarService(repo repository.CalendarRepositoryInterface) *CalendarService {
	return &CalendarService{
		repo:       repo,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func oauthConfig() *oauth2.Config {
	cfg := config.Get()
	return &oauth2.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
		Scopes:       []string{calendarEventsScope},
		Endpoint:     google.Endpoint,
	}
}

// ConnectURL starts the OAuth flow. The state parameter is a short-lived
// signed token naming the host, checked again at the callback.
func (s *CalendarService) ConnectURL(ctx context.Context, hostID uuid.UUID) (string, *errors.AppError) {
	state, err := utils.GenerateToken(hostID, nil, statePurpose, stateTTL)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to create state token", err)
	}
	url := oauthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	return url, nil
}

func (s *CalendarService) HandleCallback(ctx context.Context, state, code string) *errors.AppError {
	claims, err := utils.ValidateAndParseToken(state)
	if err != nil || claims.Purpose != statePurpose {
		return errors.NewAppError(errors.ErrUnauthorized, "invalid state", err)
	}

	token, err := oauthConfig().Exchange(ctx, code)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "code exchange failed", err)
	}
	if token.RefreshToken == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "no refresh token granted", nil)
	}

	conn := &entity.CalendarConnection{
		HostID:       claims.UserID,
		Provider:     entity.ProviderGoogle,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
		CalendarID:   "primary",
	}
	if err := s.repo.UpsertConnection(ctx, conn); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to save calendar connection", err)
	}

	logger.Info("CalendarService:HandleCallback: connected", "host_id", claims.UserID)
	return nil
}

func (s *CalendarService) GetStatus(ctx context.Context, hostID uuid.UUID) (*entity.CalendarConnection, *errors.AppError) {
	conn, err := s.repo.GetActiveConnection(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar connection", err)
	}
	if conn == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "no calendar connection", nil)
	}
	return conn, nil
}

func (s *CalendarService) Disconnect(ctx context.Context, hostID uuid.UUID) *errors.AppError {
	if err := s.repo.DeactivateConnection(ctx, hostID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to disconnect calendar", err)
	}
	logger.Info("CalendarService:Disconnect: disconnected", "host_id", hostID)
	return nil
}

// accessToken returns a valid access token for the host, refreshing and
// persisting it when expired.
func (s *CalendarService) accessToken(ctx context.Context, conn *entity.CalendarConnection) (string, error) {
	if time.Until(conn.TokenExpiry) > time.Minute {
		return conn.AccessToken, nil
	}

	source := oauthConfig().TokenSource(ctx, &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.TokenExpiry,
	})
	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("token refresh: %w", err)
	}
	if token.AccessToken != conn.AccessToken {
		if err := s.repo.UpdateTokens(ctx, conn.HostID, token.AccessToken, token.Expiry); err != nil {
			logger.Warn("CalendarService:accessToken: failed to persist refreshed token", err)
		}
	}
	return token.AccessToken, nil
}

type calendarEventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type calendarAttendee struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

type conferenceSolutionKey struct {
	Type string `json:"type"`
}

type conferenceCreateRequest struct {
	RequestID             string                `json:"requestId"`
	ConferenceSolutionKey conferenceSolutionKey `json:"conferenceSolutionKey"`
}

type conferenceData struct {
	CreateRequest conferenceCreateRequest `json:"createRequest"`
}

type calendarEventRequest struct {
	Summary        string            `json:"summary"`
	Description    string            `json:"description,omitempty"`
	Start          calendarEventTime `json:"start"`
	End            calendarEventTime `json:"end"`
	Attendees      []calendarAttendee `json:"attendees,omitempty"`
	ConferenceData *conferenceData   `json:"conferenceData,omitempty"`
}

type calendarEventResponse struct {
	ID          string `json:"id"`
	HangoutLink string `json:"hangoutLink"`
}

// CreateBookingEvent inserts the booking into the host's primary calendar.
// With withMeet a Google Meet conference is attached and its link returned.
func (s *CalendarService) CreateBookingEvent(ctx context.Context, hostID uuid.UUID, booking *bookingentity.Booking, title string, withMeet bool) (string, string, error) {
	conn, err := s.repo.GetActiveConnection(ctx, hostID)
	if err != nil {
		return "", "", err
	}
	if conn == nil {
		// Not connected is not an error; the booking simply has no event.
		return "", "", nil
	}

	token, err := s.accessToken(ctx, conn)
	if err != nil {
		return "", "", err
	}

	event := calendarEventRequest{
		Summary:     title + " with " + booking.GuestName,
		Description: "Booked via Bookly",
		Start:       calendarEventTime{DateTime: booking.StartTime.Format(time.RFC3339), TimeZone: "UTC"},
		End:         calendarEventTime{DateTime: booking.EndTime.Format(time.RFC3339), TimeZone: "UTC"},
		Attendees:   []calendarAttendee{{Email: booking.GuestEmail, DisplayName: booking.GuestName}},
	}
	if booking.Notes != nil && *booking.Notes != "" {
		event.Description += "\n\nNotes: " + *booking.Notes
	}
	if withMeet {
		event.ConferenceData = &conferenceData{CreateRequest: conferenceCreateRequest{
			RequestID:             booking.ID.String(),
			ConferenceSolutionKey: conferenceSolutionKey{Type: "hangoutsMeet"},
		}}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return "", "", err
	}

	url := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=1", calendarAPIBase, conn.CalendarID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", "", fmt.Errorf("calendar event insert: status %d: %s", resp.StatusCode, string(raw))
	}

	var created calendarEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", "", err
	}

	logger.Info("CalendarService:CreateBookingEvent: created", "booking_id", booking.ID, "event_id", created.ID)
	return created.ID, created.HangoutLink, nil
}

func (s *CalendarService) DeleteBookingEvent(ctx context.Context, hostID uuid.UUID, eventID string) error {
	conn, err := s.repo.GetActiveConnection(ctx, hostID)
	if err != nil {
		return err
	}
	if conn == nil {
		return nil
	}

	token, err := s.accessToken(ctx, conn)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/calendars/%s/events/%s", calendarAPIBase, conn.CalendarID, eventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 404 and 410 mean the event is already gone, which is the goal state.
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound && resp.StatusCode != http.StatusGone {
		return fmt.Errorf("calendar event delete: status %d", resp.StatusCode)
	}

	logger.Info("CalendarService:DeleteBookingEvent: deleted", "event_id", eventID)
	return nil
}
