package model

import (
	"encoding/json"
	"strings"
	"time"
)

const dateTimeLayout = "2006-01-02T15:04:05"

// parseDateTime accepts the zoneless layout used on the wire plus RFC3339
// variants; an empty value yields the zero time so "required" catches it.
func parseDateTime(s string) (time.Time, error) {
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	var lastErr error
	for _, layout := range []string{dateTimeLayout, time.RFC3339Nano, time.RFC3339} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type CreateItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Available   *bool   `json:"available"`
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

type CreateItemRequestRequest struct {
	Description string `json:"description" validate:"required"`
}

type CreateBookingRequest struct {
	ItemID int64     `json:"itemId" validate:"required"`
	Start  time.Time `json:"start" validate:"required,futureorpresent"`
	End    time.Time `json:"end" validate:"required"`
}

func (r *CreateBookingRequest) UnmarshalJSON(b []byte) error {
	var raw struct {
		ItemID int64  `json:"itemId"`
		Start  string `json:"start"`
		End    string `json:"end"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.ItemID = raw.ItemID
	var err error
	if r.Start, err = parseDateTime(strings.TrimSpace(raw.Start)); err != nil {
		return err
	}
	if r.End, err = parseDateTime(strings.TrimSpace(raw.End)); err != nil {
		return err
	}
	return nil
}

// ValidBookingState reports whether the state filter is one the core
// server accepts. Empty means ALL; matching is case-sensitive.
func ValidBookingState(s string) bool {
	switch s {
	case "", "ALL", "CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED":
		return true
	}
	return false
}

// Booking is the slice of the core server's booking response the gateway
// needs to publish lifecycle events.
type Booking struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Item   struct {
		ID int64 `json:"id"`
	} `json:"item"`
	Booker struct {
		ID int64 `json:"id"`
	} `json:"booker"`
}

const (
	BookingEventCreated       = "booking_created"
	BookingEventStatusChanged = "booking_status_changed"
)

type BookingEvent struct {
	EventID   string    `json:"eventId"`
	Type      string    `json:"type"`
	BookingID int64     `json:"bookingId"`
	ItemID    int64     `json:"itemId"`
	UserID    int64     `json:"userId"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}
