package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/models/dtos"
	"aiso/tripdesk/internal/models/entities"
	"aiso/tripdesk/internal/preferences"
)

const defaultTimeout = 10 * time.Second

// Client talks to the tripdesk HTTP API. BaseURL may point at the root mount
// or at the /api mount; both serve the same routes.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a client for baseURL with a bounded request timeout
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

// ListMeetings returns every meeting the server knows about, in server order
func (c *Client) ListMeetings(ctx context.Context) ([]entities.Event, error) {
	var events []entities.Event
	if err := c.do(ctx, http.MethodGet, "/meetings", nil, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []entities.Event{}
	}
	return events, nil
}

// FetchPreferences returns the meeting's preference record, normalized here so
// callers never see a server-side shape variant.
func (c *Client) FetchPreferences(ctx context.Context, meetingID string) (entities.PreferenceRecord, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return entities.PreferenceRecord{}, common.MissingMeeting()
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/meetings/"+url.PathEscape(meetingID)+"/essential", nil, &raw); err != nil {
		return entities.PreferenceRecord{}, err
	}
	return preferences.Normalize(raw, meetingID), nil
}

// ConfirmPreferences submits the canonical form of rec as the meeting's new
// override. The meeting id is checked before any request is made.
func (c *Client) ConfirmPreferences(ctx context.Context, meetingID string, rec entities.PreferenceRecord) (*dtos.ConfirmResponse, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return nil, common.InvalidInput(constants.MsgMeetingRequired)
	}

	rec.MeetingID = meetingID
	rec = preferences.NormalizeRecord(rec)

	var resp dtos.ConfirmResponse
	if err := c.do(ctx, http.MethodPost, "/meetings/"+url.PathEscape(meetingID)+"/essential/confirm", rec, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) FetchReasoning(ctx context.Context, meetingID string) (*dtos.ReasoningResponse, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return nil, common.MissingMeeting()
	}

	var resp dtos.ReasoningResponse
	if err := c.do(ctx, http.MethodGet, "/agent/reasoning/"+url.PathEscape(meetingID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Log == nil {
		resp.Log = []entities.ReasoningLogEntry{}
	}
	return &resp, nil
}

// SearchFlights sends the nested {meetingId, preferences: {freeText}} body
func (c *Client) SearchFlights(ctx context.Context, meetingID, freeText string) (*dtos.FlightSearchResponse, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return nil, common.MissingMeeting()
	}

	req := dtos.FlightSearchRequest{
		MeetingID:   meetingID,
		Preferences: &dtos.SearchPreferences{FreeText: freeText},
	}
	var resp dtos.FlightSearchResponse
	if err := c.do(ctx, http.MethodPost, "/flights/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateBooking(ctx context.Context, meetingID, candidateID string) (*entities.Booking, error) {
	if strings.TrimSpace(candidateID) == "" {
		return nil, common.InvalidInput(constants.MsgCandidateRequired)
	}
	if strings.TrimSpace(meetingID) == "" {
		return nil, common.MissingMeeting()
	}

	req := dtos.CreateBookingRequest{MeetingID: meetingID, CandidateID: candidateID}
	var booking entities.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) FetchBooking(ctx context.Context, bookingID string) (*entities.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, common.InvalidInput("bookingId is required")
	}

	var booking entities.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(bookingID), nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// do sends payload as JSON (when non-nil) and decodes a 2xx body into result
func (c *Client) do(ctx context.Context, method, endpoint string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return common.InvalidInput(fmt.Sprintf("encode request: %v", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, body)
	if err != nil {
		return common.TransportFailure("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return common.TransportFailure(constants.GetErrorMessage(constants.ErrCodeTransportFailure), err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return common.TransportFailure("failed to read response body", err)
	}
	logging.Debug("tripdesk call", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "duration", common.GetResponseTime(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return buildHTTPError(resp.StatusCode, endpoint, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return &common.AppError{
			Code:    constants.ErrCodeTransportFailure,
			Message: "failed to decode response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}
	return nil
}

// buildHTTPError maps a non-2xx response onto the AppError codes
func buildHTTPError(status int, endpoint string, body []byte) error {
	var errBody dtos.ErrorResponse
	_ = json.Unmarshal(body, &errBody)

	switch status {
	case http.StatusBadRequest:
		msg := errBody.Error
		if msg == "" {
			msg = "invalid input"
		}
		if errBody.Code == constants.ErrCodeMissingMeeting {
			return &common.AppError{Code: constants.ErrCodeMissingMeeting, Message: msg}
		}
		return common.InvalidInput(msg)
	case http.StatusNotFound:
		return &common.AppError{
			Code:    constants.ErrCodeNotFound,
			Message: fmt.Sprintf("not found: %s", endpoint),
			Details: string(body),
		}
	case http.StatusTooManyRequests:
		return &common.AppError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
		}
	default:
		return &common.AppError{
			Code:    constants.ErrCodeTransportFailure,
			Message: fmt.Sprintf("unexpected status %d from %s", status, endpoint),
			Details: string(body),
		}
	}
}
