package item

import (
	"context"
	"log/slog"
	"time"

	"github.com/fernandezvara/catalogd/internal/store"
)

// Repository implements the CRUD operations for items. Every operation
// runs inside exactly one session: committed on success, rolled back on
// any persistence failure. Callers receive detached copies of committed
// state; the repository retains nothing across operations.
type Repository struct {
	store  *store.Store
	logger *slog.Logger
}

// NewRepository creates an item repository backed by the given store.
func NewRepository(s *store.Store, logger *slog.Logger) *Repository {
	return &Repository{store: s, logger: logger}
}

// Create inserts a new item from validated input. The store assigns the
// id; created_at is set at insertion and updated_at starts out null.
func (r *Repository) Create(ctx context.Context, in ItemCreate) (*Item, error) {
	it := &Item{
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}

	err := r.store.WithSession(ctx, func(s *store.Session) error {
		_, err := s.NewInsert().Model(it).Returning("id").Exec(ctx)
		return store.Wrap(err, "items.Create")
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("item created", slog.Int64("id", it.ID))
	return it, nil
}

// Get returns the item with the given id, or store.ErrNotFound when no
// such item exists. An absent item is indistinguishable from a deleted
// one.
func (r *Repository) Get(ctx context.Context, id int64) (*Item, error) {
	it := new(Item)

	err := r.store.WithSession(ctx, func(s *store.Session) error {
		return store.Wrap(
			s.NewSelect().Model(it).Where("id = ?", id).Scan(ctx),
			"items.Get",
		)
	})
	if err != nil {
		return nil, err
	}

	return it, nil
}

// List returns items in insertion order (id ascending), skipping skip
// rows and returning at most limit. The repository enforces no upper
// bound on limit; an empty store yields an empty slice.
func (r *Repository) List(ctx context.Context, skip, limit int) ([]Item, error) {
	items := make([]Item, 0)
	if limit == 0 {
		return items, nil
	}

	err := r.store.WithSession(ctx, func(s *store.Session) error {
		return store.Wrap(
			s.NewSelect().
				Model(&items).
				Order("id ASC").
				Offset(skip).
				Limit(limit).
				Scan(ctx),
			"items.List",
		)
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Update applies only the supplied fields to the item with the given
// id and stamps updated_at. Returns store.ErrNotFound without mutating
// anything when the item does not exist.
func (r *Repository) Update(ctx context.Context, id int64, in ItemUpdate) (*Item, error) {
	it := new(Item)

	err := r.store.WithSession(ctx, func(s *store.Session) error {
		if err := s.NewSelect().Model(it).Where("id = ?", id).Scan(ctx); err != nil {
			return store.Wrap(err, "items.Update")
		}

		if in.Name != nil {
			it.Name = *in.Name
		}
		if in.Description != nil {
			it.Description = *in.Description
		}
		now := time.Now().UTC()
		it.UpdatedAt = &now

		_, err := s.NewUpdate().
			Model(it).
			Column("name", "description", "updated_at").
			WherePK().
			Exec(ctx)
		return store.Wrap(err, "items.Update")
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("item updated", slog.Int64("id", id))
	return it, nil
}

// Delete removes the item with the given id. Returns store.ErrNotFound
// when the item does not exist; deleting twice is not an error class
// beyond that signal.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	err := r.store.WithSession(ctx, func(s *store.Session) error {
		it := new(Item)
		if err := s.NewSelect().Model(it).Where("id = ?", id).Scan(ctx); err != nil {
			return store.Wrap(err, "items.Delete")
		}

		_, err := s.NewDelete().Model(it).WherePK().Exec(ctx)
		return store.Wrap(err, "items.Delete")
	})
	if err != nil {
		return err
	}

	r.logger.Info("item deleted", slog.Int64("id", id))
	return nil
}
