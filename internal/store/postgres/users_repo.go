package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/store"
)

const emailIndexName = "users_email_key"

type UserRepo struct {
	db *bun.DB
}

func NewUserRepo(db *bun.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	m := user
	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		return domain.User{}, mapUserErr(err)
	}
	return m, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var m domain.User
	err := r.db.NewSelect().
		Model(&m).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, store.ErrNotFound
		}
		return domain.User{}, err
	}
	return m, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var m domain.User
	err := r.db.NewSelect().
		Model(&m).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, store.ErrNotFound
		}
		return domain.User{}, err
	}
	return m, nil
}

func (r *UserRepo) Update(ctx context.Context, user domain.User) (domain.User, error) {
	m := user
	res, err := r.db.NewUpdate().
		Model(&m).
		Column("name", "email", "password_hash", "provider", "avatar_url", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.User{}, mapUserErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.User{}, err
	}
	if affected == 0 {
		return domain.User{}, store.ErrNotFound
	}
	return m, nil
}

func mapUserErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == emailIndexName {
		return store.ErrDuplicateEmail
	}
	return err
}
