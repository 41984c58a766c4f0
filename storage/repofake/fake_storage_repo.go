package repofake

import (
	"sync"

	"github.com/jrsteele09/go-shop-client/storage"
)

var _ storage.Repo = (*FakeStorageRepo)(nil)

// FakeStorageRepo is an in-memory storage.Repo. Setting FailWrites makes every
// Set and Remove return that error without changing state.
type FakeStorageRepo struct {
	values     map[string]string
	lock       sync.RWMutex
	FailWrites error
}

func NewFakeStorageRepo() *FakeStorageRepo {
	return &FakeStorageRepo{
		values: make(map[string]string),
	}
}

func (r *FakeStorageRepo) Get(key string) (string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	v, ok := r.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (r *FakeStorageRepo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.FailWrites != nil {
		return r.FailWrites
	}
	r.values[key] = value
	return nil
}

func (r *FakeStorageRepo) Remove(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.FailWrites != nil {
		return r.FailWrites
	}
	delete(r.values, key)
	return nil
}

// Has reports whether key currently holds a value.
func (r *FakeStorageRepo) Has(key string) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	_, ok := r.values[key]
	return ok
}
