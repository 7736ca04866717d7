package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/store"
)

const slotIndexName = "appointments_provider_slot_key"

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:         appt.ID,
		ClientID:   appt.ClientID,
		ProviderID: appt.ProviderID,
		Date:       appt.Date,
	}

	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == slotIndexName {
			return domain.Appointment{}, store.ErrSlotTaken
		}
		return domain.Appointment{}, err
	}
	return m, nil
}

func (r *AppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var m domain.Appointment
	err := r.db.NewSelect().
		Model(&m).
		Where("a.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return m, nil
}

func (r *AppointmentRepo) FindActiveSlot(ctx context.Context, providerID uuid.UUID, slot time.Time) (bool, error) {
	slot = slot.UTC()
	return r.db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("provider_id = ?", providerID).
		Where("canceled_at IS NULL").
		Where("date >= ?", slot).
		Where("date < ?", slot.Add(time.Hour)).
		Exists(ctx)
}

func (r *AppointmentRepo) ListForClient(ctx context.Context, clientID uuid.UUID, page int) ([]domain.Appointment, error) {
	if page < 1 {
		page = 1
	}

	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Provider", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name", "avatar_url")
		}).
		Where("a.client_id = ?", clientID).
		Where("a.canceled_at IS NULL").
		OrderExpr("a.date ASC").
		Limit(store.ListPageSize).
		Offset((page - 1) * store.ListPageSize).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) MarkCanceled(ctx context.Context, id uuid.UUID, at time.Time) (domain.Appointment, error) {
	res, err := r.db.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Set("canceled_at = ?", at.UTC()).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("canceled_at IS NULL").
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return r.FindByID(ctx, id)
}
