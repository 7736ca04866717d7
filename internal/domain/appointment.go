package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Appointment stores the timestamp the client asked for, as given. Slot
// availability is always decided on the hour-truncated value, never on Date.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments,alias:a"`

	ID         uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	ClientID   uuid.UUID  `bun:"client_id,notnull,type:uuid" json:"client_id"`
	ProviderID uuid.UUID  `bun:"provider_id,notnull,type:uuid" json:"provider_id"`
	Date       time.Time  `bun:"date,notnull" json:"date"`
	CanceledAt *time.Time `bun:"canceled_at" json:"canceled_at,omitempty"`
	CreatedAt  time.Time  `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt  time.Time  `bun:"updated_at,notnull" json:"updated_at"`

	Provider *User `bun:"rel:belongs-to,join:provider_id=id" json:"provider,omitempty"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
