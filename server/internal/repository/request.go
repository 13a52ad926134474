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

type itemRequestRepository struct {
	db  *sqlx.DB
	log *zap.Logger
	now func() time.Time
}

func NewItemRequestRepository(db *sqlx.DB, log *zap.Logger) *itemRequestRepository {
	return &itemRequestRepository{
		db:  db,
		log: log.Named("request-repo"),
		now: time.Now,
	}
}

type requestRow struct {
	ID           int64     `db:"id"`
	Description  string    `db:"description"`
	Created      time.Time `db:"created"`
	CreatorID    int64     `db:"creator_id"`
	CreatorName  string    `db:"creator_name"`
	CreatorEmail string    `db:"creator_email"`
}

func (row requestRow) toModel() model.ItemRequest {
	return model.ItemRequest{
		ID:          row.ID,
		Description: row.Description,
		Created:     model.DateTime{Time: row.Created},
		Creator: model.User{
			ID:    row.CreatorID,
			Name:  row.CreatorName,
			Email: row.CreatorEmail,
		},
	}
}

func selectRequests() sq.SelectBuilder {
	return qb.Select(
		"r.id", "r.description", "r.created",
		"u.id as creator_id", "u.name as creator_name", "u.email as creator_email",
	).
		From(requestsTableName + " r").
		Join(usersTableName + " u ON u.id = r.creator_id")
}

func (r *itemRequestRepository) Create(ctx context.Context, creator model.User, request model.ItemRequest) (model.ItemRequest, error) {
	created := r.now()
	query, args, err := qb.Insert(requestsTableName).
		Columns("description", "creator_id", "created").
		Values(request.Description, creator.ID, created).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return model.ItemRequest{}, err
	}
	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		r.log.Error("create request", zap.String("q", query), zap.Error(err))
		return model.ItemRequest{}, err
	}
	request.ID = id
	request.Creator = creator
	request.Created = model.DateTime{Time: created}
	request.Items = []model.Item{}
	return request, nil
}

func (r *itemRequestRepository) GetByID(ctx context.Context, requestID int64) (model.ItemRequest, error) {
	query, args, err := selectRequests().
		Where(sq.Eq{"r.id": requestID}).
		ToSql()
	if err != nil {
		return model.ItemRequest{}, err
	}
	var row requestRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ItemRequest{}, errors.Wrapf(errs.ErrNotFound, "item request %d", requestID)
		}
		return model.ItemRequest{}, err
	}
	request := row.toModel()
	if err := r.loadItems(ctx, []*model.ItemRequest{&request}); err != nil {
		return model.ItemRequest{}, err
	}
	return request, nil
}

func (r *itemRequestRepository) ListByCreator(ctx context.Context, creatorID int64) ([]model.ItemRequest, error) {
	return r.listWhere(ctx, selectRequests().
		Where(sq.Eq{"r.creator_id": creatorID}).
		OrderBy("r.created ASC"))
}

// ListOthers pages through requests created by everyone except the user —
// the feed of asks an owner may choose to fulfill.
func (r *itemRequestRepository) ListOthers(ctx context.Context, userID int64, page model.Page) ([]model.ItemRequest, error) {
	return r.listWhere(ctx, selectRequests().
		Where(sq.NotEq{"r.creator_id": userID}).
		OrderBy("r.created ASC").
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset())))
}

func (r *itemRequestRepository) listWhere(ctx context.Context, q sq.SelectBuilder) ([]model.ItemRequest, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	requests := make([]model.ItemRequest, 0, len(rows))
	refs := make([]*model.ItemRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toModel())
		refs = append(refs, &requests[len(requests)-1])
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, err
	}
	return requests, nil
}

// loadItems performs the read-time join of fulfilling items; nothing about
// that relation is stored on the request row itself.
func (r *itemRequestRepository) loadItems(ctx context.Context, requests []*model.ItemRequest) error {
	if len(requests) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(requests))
	for _, request := range requests {
		request.Items = []model.Item{}
		ids = append(ids, request.ID)
	}
	query, args, err := qb.Select("id", "name", "description", "available", "request_id").
		From(itemsTableName).
		Where(sq.Eq{"request_id": ids}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return err
	}
	var items []model.Item
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return err
	}
	byRequest := make(map[int64][]model.Item, len(requests))
	for _, item := range items {
		if item.RequestID == nil {
			continue
		}
		byRequest[*item.RequestID] = append(byRequest[*item.RequestID], item)
	}
	for _, request := range requests {
		if found, ok := byRequest[request.ID]; ok {
			request.Items = found
		}
	}
	return nil
}
