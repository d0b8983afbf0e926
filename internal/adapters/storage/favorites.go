package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/ahmedtravel/playbook/internal/ports"
)

// FavoritesRepository implements ports.FavoriteScripts on a KeyValueStore.
// Ids keep the order in which they were favorited.
type FavoritesRepository struct {
	store  ports.KeyValueStore
	prefix string
}

var _ ports.FavoriteScripts = (*FavoritesRepository)(nil)

// NewFavoritesRepository stores lists under keys starting with prefix.
func NewFavoritesRepository(store ports.KeyValueStore, prefix string) *FavoritesRepository {
	return &FavoritesRepository{store: store, prefix: prefix}
}

// List returns owner's favorite script ids in the order they were added.
func (r *FavoritesRepository) List(ctx context.Context, owner string) ([]string, error) {
	raw, err := r.store.Get(ctx, r.key(owner))
	if err != nil {
		return nil, fmt.Errorf("reading favorites: %w", err)
	}

	return decodeIDs(raw)
}

// Contains reports whether scriptID is one of owner's favorites.
func (r *FavoritesRepository) Contains(ctx context.Context, owner, scriptID string) (bool, error) {
	ids, err := r.List(ctx, owner)
	if err != nil {
		return false, err
	}

	return slices.Contains(ids, scriptID), nil
}

// Toggle flips scriptID and returns whether it is now a favorite.
func (r *FavoritesRepository) Toggle(ctx context.Context, owner, scriptID string) (bool, error) {
	var now bool

	err := r.update(ctx, owner, func(ids []string) []string {
		if i := slices.Index(ids, scriptID); i >= 0 {
			now = false
			return slices.Delete(ids, i, i+1)
		}

		now = true

		return append(ids, scriptID)
	})

	return now, err
}

// Add marks scriptID as a favorite. Adding it twice keeps one entry.
func (r *FavoritesRepository) Add(ctx context.Context, owner, scriptID string) error {
	return r.update(ctx, owner, func(ids []string) []string {
		if slices.Contains(ids, scriptID) {
			return ids
		}

		return append(ids, scriptID)
	})
}

// Remove unmarks scriptID. A script that is not a favorite is ignored.
func (r *FavoritesRepository) Remove(ctx context.Context, owner, scriptID string) error {
	return r.update(ctx, owner, func(ids []string) []string {
		return slices.DeleteFunc(ids, func(id string) bool { return id == scriptID })
	})
}

// Clear deletes owner's favorites.
func (r *FavoritesRepository) Clear(ctx context.Context, owner string) error {
	if err := r.store.Delete(ctx, r.key(owner)); err != nil {
		return fmt.Errorf("clearing favorites: %w", err)
	}

	return nil
}

// Count returns how many favorites owner has.
func (r *FavoritesRepository) Count(ctx context.Context, owner string) (int, error) {
	ids, err := r.List(ctx, owner)
	if err != nil {
		return 0, err
	}

	return len(ids), nil
}

func (r *FavoritesRepository) key(owner string) string {
	return namespacedKey(r.prefix, favoriteScriptKey, owner)
}

func (r *FavoritesRepository) update(ctx context.Context, owner string, fn func([]string) []string) error {
	err := r.store.Update(ctx, r.key(owner), func(current []byte) ([]byte, error) {
		ids, err := decodeIDs(current)
		if err != nil {
			return nil, err
		}

		return json.Marshal(fn(ids))
	})
	if err != nil {
		return fmt.Errorf("updating favorites: %w", err)
	}

	return nil
}

func decodeIDs(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decoding favorites: %w", err)
	}

	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}
