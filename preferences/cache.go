// Package preferences keeps the local wishlist and cart membership sets in
// step with the remote product service.
package preferences

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/jrsteele09/go-shop-client/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Kind names one preference set.
type Kind string

const (
	Wishlist Kind = storage.KeyWishlist
	Cart     Kind = storage.KeyCart
)

// Mutator performs the remote side of a preference change.
type Mutator interface {
	AddToWishlist(ctx context.Context, id string) error
	RemoveFromWishlist(ctx context.Context, id string) error
	AddToCart(ctx context.Context, id string, quantity int) error
	RemoveFromCart(ctx context.Context, id string) error
}

// Cache mirrors the wishlist and cart sets into durable storage. Every
// successful mutation updates memory and storage before returning.
type Cache struct {
	repo   storage.Repo
	remote Mutator

	mu      sync.Mutex
	sets    map[Kind][]string
	loading map[Kind]map[string]uint64 // id -> sequence of the latest request
	seq     uint64
}

// New creates an empty Cache. Call Load to restore the persisted sets.
func New(repo storage.Repo, remote Mutator) (*Cache, error) {
	if repo == nil {
		return nil, errors.New("[preferences.New] storage repo is required")
	}
	if remote == nil {
		return nil, errors.New("[preferences.New] remote mutator is required")
	}
	return &Cache{
		repo:   repo,
		remote: remote,
		sets:   map[Kind][]string{Wishlist: {}, Cart: {}},
		loading: map[Kind]map[string]uint64{
			Wishlist: {},
			Cart:     {},
		},
	}, nil
}

// Load restores both sets from storage. A missing or malformed entry yields an
// empty set.
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for _, kind := range []Kind{Wishlist, Cart} {
		ids, err := c.read(kind)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		c.sets[kind] = ids
	}
	return firstErr
}

func (c *Cache) read(kind Kind) ([]string, error) {
	raw, err := c.repo.Get(string(kind))
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return []string{}, apperrors.Wrapf(apperrors.ErrStorage, "[Cache.Load] read %s: %v", kind, err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Warn().Err(err).Str("key", string(kind)).Msg("discarding malformed preference set")
		return []string{}, nil
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

// AddToWishlist adds id to the wishlist once the product service accepts it.
func (c *Cache) AddToWishlist(ctx context.Context, id string) error {
	return c.mutate(ctx, Wishlist, id, true, func(ctx context.Context) error {
		return c.remote.AddToWishlist(ctx, id)
	})
}

// RemoveFromWishlist removes id from the wishlist once the product service
// accepts it.
func (c *Cache) RemoveFromWishlist(ctx context.Context, id string) error {
	return c.mutate(ctx, Wishlist, id, false, func(ctx context.Context) error {
		return c.remote.RemoveFromWishlist(ctx, id)
	})
}

// AddToCart puts quantity units of id in the cart.
func (c *Cache) AddToCart(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return errors.Wrapf(apperrors.ErrInvalidRequest, "[Cache.AddToCart] quantity must be positive, got %d", quantity)
	}
	return c.mutate(ctx, Cart, id, true, func(ctx context.Context) error {
		return c.remote.AddToCart(ctx, id, quantity)
	})
}

// RemoveFromCart takes id out of the cart.
func (c *Cache) RemoveFromCart(ctx context.Context, id string) error {
	return c.mutate(ctx, Cart, id, false, func(ctx context.Context) error {
		return c.remote.RemoveFromCart(ctx, id)
	})
}

// mutate runs remote for id and applies the change when it succeeds. Only the
// most recently issued request for an id may touch the set; older responses
// are dropped.
func (c *Cache) mutate(ctx context.Context, kind Kind, id string, add bool, remote func(context.Context) error) error {
	if id == "" {
		return errors.Wrap(apperrors.ErrInvalidRequest, "[Cache.mutate] product id is required")
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading[kind][id] = seq
	c.mu.Unlock()

	err := remote(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading[kind][id] != seq {
		log.Debug().Str("set", string(kind)).Str("id", id).Uint64("seq", seq).Msg("discarding superseded preference response")
		return err
	}
	delete(c.loading[kind], id)

	if err != nil {
		return err
	}

	current := c.sets[kind]
	var next []string
	switch {
	case add && !slices.Contains(current, id):
		next = append(slices.Clone(current), id)
	case !add && slices.Contains(current, id):
		next = slices.DeleteFunc(slices.Clone(current), func(v string) bool { return v == id })
	default:
		return nil
	}

	if err := c.write(kind, next); err != nil {
		return err
	}
	c.sets[kind] = next
	return nil
}

func (c *Cache) write(kind Kind, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return errors.Wrapf(err, "[Cache.write] marshal %s", kind)
	}
	if err := c.repo.Set(string(kind), string(data)); err != nil {
		return apperrors.Wrapf(apperrors.ErrStorage, "[Cache.write] persist %s: %v", kind, err)
	}
	return nil
}

// Contains reports whether id is in the set.
func (c *Cache) Contains(kind Kind, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.sets[kind], id)
}

// IDs returns a copy of the set in insertion order.
func (c *Cache) IDs(kind Kind) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sets[kind])
}

// Loading reports whether a request for id is in flight.
func (c *Cache) Loading(kind Kind, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.loading[kind][id]
	return ok
}
