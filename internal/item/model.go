// Package item holds the persisted Item entity and its repository.
package item

import (
	"time"

	"github.com/uptrace/bun"
)

// Item is the sole persisted entity. The id is assigned by the store
// on creation and never reused; created_at is set once at insertion;
// updated_at stays null until the first successful update.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID          int64      `bun:"id,pk,autoincrement" json:"id"`
	Name        string     `bun:"name,notnull" json:"name"`
	Description string     `bun:"description,notnull" json:"description"`
	CreatedAt   time.Time  `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   *time.Time `bun:"updated_at" json:"updated_at"`
}

// ItemCreate is the validated input for Create. Both fields are
// required; the schema layer rejects payloads that omit either.
type ItemCreate struct {
	Name        string
	Description string
}

// ItemUpdate is the validated input for Update. A nil field means "not
// supplied" and leaves the stored value untouched; a non-nil field
// always overwrites. JSON null is indistinguishable from an absent
// field and is treated as not supplied.
type ItemUpdate struct {
	Name        *string
	Description *string
}
