package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/sharemart/sharing-service/server/internal/errs"
	"github.com/sharemart/sharing-service/server/internal/model"
)

func TestNewPage(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name       string
		from, size int
		number     int
		offset     int
	}{
		{name: "first page", from: 0, size: 10, number: 0, offset: 0},
		{name: "from below size stays on page zero", from: 5, size: 10, number: 0, offset: 0},
		{name: "from equal to size", from: 10, size: 10, number: 1, offset: 10},
		{name: "from truncated down", from: 25, size: 10, number: 2, offset: 20},
		{name: "small page size", from: 3, size: 2, number: 1, offset: 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			page := model.NewPage(tt.from, tt.size)
			require.Equal(t, tt.number, page.Number)
			require.Equal(t, tt.size, page.Size)
			require.Equal(t, tt.offset, page.Offset())
		})
	}
}

func TestParseBookingState(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		in      string
		want    model.BookingState
		wantErr bool
	}{
		{in: "", want: model.StateAll},
		{in: "ALL", want: model.StateAll},
		{in: "CURRENT", want: model.StateCurrent},
		{in: "PAST", want: model.StatePast},
		{in: "FUTURE", want: model.StateFuture},
		{in: "WAITING", want: model.StateWaiting},
		{in: "REJECTED", want: model.StateRejected},
		{in: "current", wantErr: true},
		{in: "Past", wantErr: true},
		{in: "APPROVED", wantErr: true},
		{in: "bogus", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run("state "+tt.in, func(t *testing.T) {
			t.Parallel()
			state, err := model.ParseBookingState(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, errs.ErrBadRequest))
				require.Contains(t, err.Error(), "Unknown state: "+tt.in)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, state)
		})
	}
}

func TestDateTimeJSON(t *testing.T) {
	t.Parallel()

	t.Run("marshal drops the zone", func(t *testing.T) {
		t.Parallel()
		d := model.DateTime{Time: time.Date(2030, 6, 1, 12, 30, 0, 0, time.UTC)}
		data, err := json.Marshal(d)
		require.NoError(t, err)
		require.Equal(t, `"2030-06-01T12:30:00"`, string(data))
	})

	t.Run("unmarshal accepted layouts", func(t *testing.T) {
		t.Parallel()
		for _, in := range []string{
			`"2030-06-01T12:30:00"`,
			`"2030-06-01T12:30:00.000000001"`,
			`"2030-06-01T12:30:00Z"`,
		} {
			var d model.DateTime
			require.NoError(t, json.Unmarshal([]byte(in), &d), in)
			require.Equal(t, 2030, d.Year(), in)
			require.Equal(t, 30, d.Minute(), in)
		}
	})

	t.Run("null keeps zero value", func(t *testing.T) {
		t.Parallel()
		var d model.DateTime
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		require.True(t, d.IsZero())
	})

	t.Run("garbage rejected", func(t *testing.T) {
		t.Parallel()
		var d model.DateTime
		require.Error(t, json.Unmarshal([]byte(`"01.06.2030"`), &d))
	})
}
