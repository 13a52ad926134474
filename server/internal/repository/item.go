package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/server/internal/errs"
	"github.com/sharemart/sharing-service/server/internal/model"
)

type itemRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewItemRepository(db *sqlx.DB, log *zap.Logger) *itemRepository {
	return &itemRepository{
		db:  db,
		log: log.Named("item-repo"),
	}
}

type itemRow struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Available   bool           `db:"available"`
	RequestID   *int64         `db:"request_id"`
	OwnerID     int64          `db:"owner_id"`
	OwnerName   sql.NullString `db:"owner_name"`
	OwnerEmail  sql.NullString `db:"owner_email"`
}

func (row itemRow) toModel() model.Item {
	return model.Item{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Available:   row.Available,
		RequestID:   row.RequestID,
		Owner: model.User{
			ID:    row.OwnerID,
			Name:  row.OwnerName.String,
			Email: row.OwnerEmail.String,
		},
	}
}

var itemColumns = []string{
	"i.id", "i.name", "i.description", "i.available", "i.request_id",
	"i.owner_id", "u.name as owner_name", "u.email as owner_email",
}

func (r *itemRepository) selectItems() sq.SelectBuilder {
	return qb.Select(itemColumns...).
		From(itemsTableName + " i").
		Join(usersTableName + " u ON u.id = i.owner_id")
}

func (r *itemRepository) Create(ctx context.Context, owner model.User, item model.Item) (model.Item, error) {
	query, args, err := qb.Insert(itemsTableName).
		Columns("name", "description", "available", "owner_id", "request_id").
		Values(item.Name, item.Description, item.Available, owner.ID, item.RequestID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return model.Item{}, err
	}
	if err := r.db.GetContext(ctx, &item.ID, query, args...); err != nil {
		r.log.Error("create item", zap.String("q", query), zap.Error(err))
		return model.Item{}, err
	}
	item.Owner = owner
	return item, nil
}

func (r *itemRepository) GetByID(ctx context.Context, itemID int64) (model.Item, error) {
	query, args, err := r.selectItems().
		Where(sq.Eq{"i.id": itemID}).
		ToSql()
	if err != nil {
		return model.Item{}, err
	}
	var row itemRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, errors.Wrapf(errs.ErrNotFound, "item %d", itemID)
		}
		return model.Item{}, err
	}
	return row.toModel(), nil
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID int64, page model.Page) ([]model.Item, error) {
	query, args, err := r.selectItems().
		Where(sq.Eq{"i.owner_id": ownerID}).
		OrderBy("i.id").
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

// Search matches name or description case-insensitively among available
// items; empty text yields an empty result by contract.
func (r *itemRepository) Search(ctx context.Context, text string, page model.Page) ([]model.Item, error) {
	if text == "" {
		return []model.Item{}, nil
	}
	pattern := "%" + text + "%"
	query, args, err := r.selectItems().
		Where(sq.And{
			sq.Eq{"i.available": true},
			sq.Or{
				sq.ILike{"i.name": pattern},
				sq.ILike{"i.description": pattern},
			},
		}).
		OrderBy("i.id").
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

func (r *itemRepository) Update(ctx context.Context, ownerID, itemID int64, patch model.ItemPatch) (model.Item, error) {
	q := qb.Update(itemsTableName).
		Where(sq.Eq{"id": itemID, "owner_id": ownerID})
	if patch.Name != nil {
		q = q.Set("name", *patch.Name)
	}
	if patch.Description != nil {
		q = q.Set("description", *patch.Description)
	}
	if patch.Available != nil {
		q = q.Set("available", *patch.Available)
	}
	if patch.Name == nil && patch.Description == nil && patch.Available == nil {
		return r.getOwned(ctx, ownerID, itemID)
	}
	query, args, err := q.Suffix("RETURNING id").ToSql()
	if err != nil {
		return model.Item{}, err
	}
	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, errors.Wrapf(errs.ErrNotFound, "item %d", itemID)
		}
		return model.Item{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *itemRepository) getOwned(ctx context.Context, ownerID, itemID int64) (model.Item, error) {
	item, err := r.GetByID(ctx, itemID)
	if err != nil {
		return model.Item{}, err
	}
	if item.Owner.ID != ownerID {
		return model.Item{}, errors.Wrapf(errs.ErrNotFound, "item %d", itemID)
	}
	return item, nil
}

func (r *itemRepository) Delete(ctx context.Context, ownerID, itemID int64) error {
	query, args, err := qb.Delete(itemsTableName).
		Where(sq.Eq{"id": itemID, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return errors.Wrapf(errs.ErrConflict, "item %d is referenced by bookings", itemID)
		}
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.Wrapf(errs.ErrNotFound, "item %d", itemID)
	}
	return nil
}
