package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/models/dtos"
	"aiso/tripdesk/internal/models/entities"
)

// maxBodyBytes caps every JSON request body
const maxBodyBytes = 1 << 20

// The handlers depend on these narrow views of the services.

type EventLister interface {
	List(ctx context.Context) ([]entities.Event, error)
	Calendar(ctx context.Context, now time.Time) (string, error)
}

type PreferenceFetcher interface {
	Fetch(ctx context.Context, meetingID string) (entities.PreferenceRecord, error)
}

type PreferenceConfirmer interface {
	Confirm(ctx context.Context, meetingID string, body []byte) (*dtos.ConfirmResponse, error)
}

type ReasoningReader interface {
	Get(ctx context.Context, meetingID string) (*dtos.ReasoningResponse, error)
}

type FlightSearcher interface {
	Search(ctx context.Context, req dtos.FlightSearchRequest) (*dtos.FlightSearchResponse, error)
}

type BookingManager interface {
	Create(ctx context.Context, req dtos.CreateBookingRequest) (*entities.Booking, error)
	Get(ctx context.Context, bookingID string) (*entities.Booking, error)
}

// readBody returns the raw request body, bounded by maxBodyBytes
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, common.InvalidInput("request body too large")
		}
		return nil, common.InvalidInput(constants.MsgBodyRequired)
	}
	return body, nil
}

// decodeBody decodes a JSON object body into out
func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return common.InvalidInput(constants.MsgBodyRequired)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return common.InvalidInput(constants.MsgBodyNotObject)
	}
	return nil
}
