package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/server/internal/model"
)

type commentRepository struct {
	db  *sqlx.DB
	log *zap.Logger
	now func() time.Time
}

func NewCommentRepository(db *sqlx.DB, log *zap.Logger) *commentRepository {
	return &commentRepository{
		db:  db,
		log: log.Named("comment-repo"),
		now: time.Now,
	}
}

func (r *commentRepository) Create(ctx context.Context, item model.Item, author model.User, comment model.Comment) (model.Comment, error) {
	created := r.now()
	query, args, err := qb.Insert(commentsTableName).
		Columns("item_id", "author_id", "text", "created").
		Values(item.ID, author.ID, comment.Text, created).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return model.Comment{}, err
	}
	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		r.log.Error("create comment", zap.String("q", query), zap.Error(err))
		return model.Comment{}, err
	}
	return model.Comment{
		ID:         id,
		Text:       comment.Text,
		AuthorName: author.Name,
		Created:    model.DateTime{Time: created},
	}, nil
}

func (r *commentRepository) ListByItem(ctx context.Context, itemID int64) ([]model.Comment, error) {
	query, args, err := qb.Select("c.id", "c.text", "u.name as author_name", "c.created").
		From(commentsTableName + " c").
		Join(usersTableName + " u ON u.id = c.author_id").
		Where(sq.Eq{"c.item_id": itemID}).
		OrderBy("c.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var comments []model.Comment
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, err
	}
	return comments, nil
}
