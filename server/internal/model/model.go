package model

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sharemart/sharing-service/server/internal/errs"
)

type BookingStatus string

// CANCELED exists in some clients' vocabulary but is not part of the
// transition machine: a booking is decided exactly once, WAITING ->
// APPROVED|REJECTED.
const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// BookingState is a query-time filter bucket, never persisted.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState maps the state query param to a bucket. Empty input
// means ALL; matching is case-sensitive, anything unrecognized is a client
// error.
func ParseBookingState(s string) (BookingState, error) {
	if s == "" {
		return StateAll, nil
	}
	switch state := BookingState(s); state {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return state, nil
	default:
		return "", errors.Wrapf(errs.ErrBadRequest, "Unknown state: %s", s)
	}
}

// DateTime carries ISO-8601 local date-times (no zone) over the wire.
type DateTime struct {
	time.Time
}

const dateTimeLayout = "2006-01-02T15:04:05"

var dateTimeLayouts = []string{
	dateTimeLayout,
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateTimeLayout) + `"`), nil
}

// Scan lets DateTime be read straight out of a timestamp column.
func (d *DateTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case nil:
		return nil
	default:
		return errors.Errorf("cannot scan %T into DateTime", src)
	}
}

func (d DateTime) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.Time = t
			return nil
		}
		lastErr = err
	}
	return lastErr
}

type User struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// UserPatch carries a partial update; nil fields keep the stored value.
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type Item struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Available   bool   `json:"available" db:"available"`
	Owner       User   `json:"-"`
	RequestID   *int64 `json:"requestId,omitempty" db:"request_id"`

	// Derived at read time, owner view only.
	LastBooking *ShortBooking `json:"lastBooking"`
	NextBooking *ShortBooking `json:"nextBooking"`
	Comments    []Comment     `json:"comments,omitempty"`
}

type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ShortBooking is the trimmed booking view embedded into an owner's item.
type ShortBooking struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

type Comment struct {
	ID         int64    `json:"id" db:"id"`
	Text       string   `json:"text" db:"text"`
	AuthorName string   `json:"authorName" db:"author_name"`
	Created    DateTime `json:"created"`
}

type ItemRequest struct {
	ID          int64    `json:"id" db:"id"`
	Description string   `json:"description" db:"description"`
	Creator     User     `json:"-"`
	Created     DateTime `json:"created"`
	Items       []Item   `json:"items"`
}

type Booking struct {
	ID     int64         `json:"id"`
	Start  DateTime      `json:"start"`
	End    DateTime      `json:"end"`
	Status BookingStatus `json:"status"`
	Booker User          `json:"booker"`
	Item   Item          `json:"item"`
}

func (b Booking) Short() *ShortBooking {
	return &ShortBooking{ID: b.ID, BookerID: b.Booker.ID}
}

// Page is an offset-derived page descriptor.
type Page struct {
	Number int
	Size   int
}

// NewPage keeps the historical from/size derivation: from is divided down
// to a page index rather than used as a record offset, so from=5,size=10
// lands on page 0.
func NewPage(from, size int) Page {
	number := 0
	if from > 0 {
		number = from / size
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return p.Number * p.Size
}
