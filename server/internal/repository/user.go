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

type userRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewUserRepository(db *sqlx.DB, log *zap.Logger) *userRepository {
	return &userRepository{
		db:  db,
		log: log.Named("user-repo"),
	}
}

func (r *userRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("name", "email").
		Values(user.Name, user.Email).
		Suffix("RETURNING id, name, email").
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var created model.User
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, errors.Wrapf(errs.ErrConflict, "user with email %s already exists", user.Email)
		}
		return model.User{}, err
	}
	return created, nil
}

func (r *userRepository) GetByID(ctx context.Context, userID int64) (model.User, error) {
	query, args, err := qb.Select("id", "name", "email").
		From(usersTableName).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errors.Wrapf(errs.ErrNotFound, "user %d", userID)
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	query, args, err := qb.Select("id", "name", "email").
		From(usersTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies a partial patch; absent fields keep their stored values.
func (r *userRepository) Update(ctx context.Context, userID int64, patch model.UserPatch) (model.User, error) {
	q := qb.Update(usersTableName).Where(sq.Eq{"id": userID})
	if patch.Name != nil {
		q = q.Set("name", *patch.Name)
	}
	if patch.Email != nil {
		q = q.Set("email", *patch.Email)
	}
	if patch.Name == nil && patch.Email == nil {
		return r.GetByID(ctx, userID)
	}
	query, args, err := q.Suffix("RETURNING id, name, email").ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errors.Wrapf(errs.ErrNotFound, "user %d", userID)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, errors.Wrapf(errs.ErrConflict, "user with email %s already exists", *patch.Email)
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *userRepository) Delete(ctx context.Context, userID int64) error {
	query, args, err := qb.Delete(usersTableName).Where(sq.Eq{"id": userID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return errors.Wrapf(errs.ErrConflict, "user %d is referenced by items or bookings", userID)
		}
		r.log.Error("delete user", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}
