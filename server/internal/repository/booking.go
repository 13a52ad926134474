package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/server/internal/errs"
	"github.com/sharemart/sharing-service/server/internal/model"
)

type bookingRepository struct {
	db  *sqlx.DB
	log *zap.Logger
	now func() time.Time
}

func NewBookingRepository(db *sqlx.DB, log *zap.Logger) *bookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.Named("booking-repo"),
		now: time.Now,
	}
}

type bookingRow struct {
	ID            int64     `db:"id"`
	StartDate     time.Time `db:"start_date"`
	EndDate       time.Time `db:"end_date"`
	Status        string    `db:"status"`
	BookerID      int64     `db:"booker_id"`
	BookerName    string    `db:"booker_name"`
	BookerEmail   string    `db:"booker_email"`
	ItemID        int64     `db:"item_id"`
	ItemName      string    `db:"item_name"`
	ItemDesc      string    `db:"item_description"`
	ItemAvailable bool      `db:"item_available"`
	ItemOwnerID   int64     `db:"item_owner_id"`
	ItemRequestID *int64    `db:"item_request_id"`
}

func (row bookingRow) toModel() model.Booking {
	return model.Booking{
		ID:     row.ID,
		Start:  model.DateTime{Time: row.StartDate},
		End:    model.DateTime{Time: row.EndDate},
		Status: model.BookingStatus(row.Status),
		Booker: model.User{
			ID:    row.BookerID,
			Name:  row.BookerName,
			Email: row.BookerEmail,
		},
		Item: model.Item{
			ID:          row.ItemID,
			Name:        row.ItemName,
			Description: row.ItemDesc,
			Available:   row.ItemAvailable,
			Owner:       model.User{ID: row.ItemOwnerID},
			RequestID:   row.ItemRequestID,
		},
	}
}

var bookingColumns = []string{
	"b.id", "b.start_date", "b.end_date", "b.status",
	"u.id as booker_id", "u.name as booker_name", "u.email as booker_email",
	"i.id as item_id", "i.name as item_name", "i.description as item_description",
	"i.available as item_available", "i.owner_id as item_owner_id", "i.request_id as item_request_id",
}

func selectBookings() sq.SelectBuilder {
	return qb.Select(bookingColumns...).
		From(bookingsTableName + " b").
		Join(usersTableName + " u ON u.id = b.booker_id").
		Join(itemsTableName + " i ON i.id = b.item_id")
}

// Create persists a new booking; status is forced to WAITING no matter what
// the draft carries.
func (r *bookingRepository) Create(ctx context.Context, draft model.Booking, booker model.User, item model.Item, request *model.ItemRequest) (model.Booking, error) {
	query, args, err := qb.Insert(bookingsTableName).
		Columns("item_id", "booker_id", "start_date", "end_date", "status").
		Values(item.ID, booker.ID, draft.Start.Time, draft.End.Time, model.StatusWaiting).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return model.Booking{}, err
	}
	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		r.log.Error("create booking", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Booking{}, err
	}
	if request != nil {
		item.RequestID = &request.ID
	}
	return model.Booking{
		ID:     id,
		Start:  draft.Start,
		End:    draft.End,
		Status: model.StatusWaiting,
		Booker: booker,
		Item:   item,
	}, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, bookingID int64) (model.Booking, error) {
	query, args, err := selectBookings().
		Where(sq.Eq{"b.id": bookingID}).
		ToSql()
	if err != nil {
		return model.Booking{}, err
	}
	var row bookingRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, errors.Wrapf(errs.ErrNotFound, "booking %d", bookingID)
		}
		return model.Booking{}, err
	}
	return row.toModel(), nil
}

// UpdateStatus performs the decision as a single conditional write: the row
// is only touched while still WAITING, so two concurrent decisions cannot
// both win.
func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID int64, status model.BookingStatus) (model.Booking, error) {
	query, args, err := qb.Update(bookingsTableName).
		Set("status", status).
		Where(sq.Eq{"id": bookingID, "status": model.StatusWaiting}).
		ToSql()
	if err != nil {
		return model.Booking{}, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return model.Booking{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Booking{}, err
	}
	if affected == 0 {
		return model.Booking{}, errors.Wrapf(errs.ErrBadRequest, "booking %d status is already set", bookingID)
	}
	return r.GetByID(ctx, bookingID)
}

// listQuery builds the filtered listing for either the booker view or the
// item-owner view. Ordering is start DESC throughout except the booker-view
// CURRENT bucket which historically sorts ascending; kept as-is.
func (r *bookingRepository) listQuery(ownerView bool, userID int64, state model.BookingState, page model.Page, now time.Time) sq.SelectBuilder {
	q := selectBookings()
	if ownerView {
		q = q.Where(sq.Eq{"i.owner_id": userID})
	} else {
		q = q.Where(sq.Eq{"b.booker_id": userID})
	}

	order := "b.start_date DESC"
	switch state {
	case model.StateCurrent:
		q = q.Where(sq.LtOrEq{"b.start_date": now}).Where(sq.GtOrEq{"b.end_date": now})
		if !ownerView {
			order = "b.start_date ASC"
		}
	case model.StatePast:
		q = q.Where(sq.Lt{"b.end_date": now})
	case model.StateFuture:
		q = q.Where(sq.Gt{"b.start_date": now})
	case model.StateWaiting:
		q = q.Where(sq.Eq{"b.status": model.StatusWaiting})
	case model.StateRejected:
		q = q.Where(sq.Eq{"b.status": model.StatusRejected})
	case model.StateAll:
	}

	return q.OrderBy(order).
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset()))
}

func (r *bookingRepository) list(ctx context.Context, q sq.SelectBuilder) ([]model.Booking, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var rows []bookingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	bookings := make([]model.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, row.toModel())
	}
	return bookings, nil
}

func (r *bookingRepository) ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, page model.Page) ([]model.Booking, error) {
	return r.list(ctx, r.listQuery(false, bookerID, state, page, r.now()))
}

func (r *bookingRepository) ListByItemOwner(ctx context.Context, ownerID int64, state model.BookingState, page model.Page) ([]model.Booking, error) {
	return r.list(ctx, r.listQuery(true, ownerID, state, page, r.now()))
}

func (r *bookingRepository) findOne(ctx context.Context, q sq.SelectBuilder) (*model.Booking, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	var row bookingRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	booking := row.toModel()
	return &booking, nil
}

// FindLastApproved returns the nearest already-started approved booking of
// the item, none when there is no such booking.
func (r *bookingRepository) FindLastApproved(ctx context.Context, itemID int64) (*model.Booking, error) {
	return r.findOne(ctx, selectBookings().
		Where(sq.Eq{"b.item_id": itemID, "b.status": model.StatusApproved}).
		Where(sq.Lt{"b.start_date": r.now()}).
		OrderBy("b.end_date DESC"))
}

func (r *bookingRepository) FindNextApproved(ctx context.Context, itemID int64) (*model.Booking, error) {
	return r.findOne(ctx, selectBookings().
		Where(sq.Eq{"b.item_id": itemID, "b.status": model.StatusApproved}).
		Where(sq.Gt{"b.start_date": r.now()}).
		OrderBy("b.start_date ASC"))
}

// FindApprovedCompletedFor is the comment-eligibility source of truth: an
// approved booking of the item by the user whose end has already passed.
func (r *bookingRepository) FindApprovedCompletedFor(ctx context.Context, itemID, userID int64) (*model.Booking, error) {
	return r.findOne(ctx, selectBookings().
		Where(sq.Eq{"b.item_id": itemID, "b.booker_id": userID, "b.status": model.StatusApproved}).
		Where(sq.Lt{"b.end_date": r.now()}).
		OrderBy("b.end_date DESC"))
}
