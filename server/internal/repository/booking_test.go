package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/server/internal/model"
)

func TestBookingListQuery(t *testing.T) {
	t.Parallel()
	r := &bookingRepository{log: zap.NewNop(), now: time.Now}
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	page := model.NewPage(0, 10)
	const userID = int64(7)

	var tests = []struct {
		name      string
		ownerView bool
		state     model.BookingState
		contains  []string
		args      int
	}{
		{
			name:     "booker ALL",
			state:    model.StateAll,
			contains: []string{"b.booker_id = $1", "ORDER BY b.start_date DESC"},
			args:     1,
		},
		{
			name:      "owner ALL scopes by item owner",
			ownerView: true,
			state:     model.StateAll,
			contains:  []string{"i.owner_id = $1", "ORDER BY b.start_date DESC"},
			args:      1,
		},
		{
			name:     "booker CURRENT brackets now and sorts ascending",
			state:    model.StateCurrent,
			contains: []string{"b.start_date <= $2", "b.end_date >= $3", "ORDER BY b.start_date ASC"},
			args:     3,
		},
		{
			name:      "owner CURRENT keeps descending order",
			ownerView: true,
			state:     model.StateCurrent,
			contains:  []string{"b.start_date <= $2", "b.end_date >= $3", "ORDER BY b.start_date DESC"},
			args:      3,
		},
		{
			name:     "PAST ended strictly before now",
			state:    model.StatePast,
			contains: []string{"b.end_date < $2", "ORDER BY b.start_date DESC"},
			args:     2,
		},
		{
			name:     "FUTURE starts strictly after now",
			state:    model.StateFuture,
			contains: []string{"b.start_date > $2", "ORDER BY b.start_date DESC"},
			args:     2,
		},
		{
			name:     "WAITING filters status",
			state:    model.StateWaiting,
			contains: []string{"b.status = $2"},
			args:     2,
		},
		{
			name:     "REJECTED filters status",
			state:    model.StateRejected,
			contains: []string{"b.status = $2"},
			args:     2,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			query, args, err := r.listQuery(tt.ownerView, userID, tt.state, page, now).ToSql()
			require.NoError(t, err)
			for _, sub := range tt.contains {
				require.Contains(t, query, sub)
			}
			require.Len(t, args, tt.args)
			require.Equal(t, userID, args[0])
			require.Contains(t, query, "LIMIT 10")
			require.Contains(t, query, "OFFSET 0")
		})
	}
}

func TestBookingListQueryPaging(t *testing.T) {
	t.Parallel()
	r := &bookingRepository{log: zap.NewNop(), now: time.Now}
	query, _, err := r.listQuery(false, 1, model.StateAll, model.NewPage(25, 10), time.Now()).ToSql()
	require.NoError(t, err)
	require.Contains(t, query, "LIMIT 10")
	require.Contains(t, query, "OFFSET 20")
}

func TestSelectBookingsJoins(t *testing.T) {
	t.Parallel()
	query, _, err := selectBookings().ToSql()
	require.NoError(t, err)
	require.Contains(t, query, "FROM bookings b")
	require.Contains(t, query, "JOIN users u ON u.id = b.booker_id")
	require.Contains(t, query, "JOIN items i ON i.id = b.item_id")
}
