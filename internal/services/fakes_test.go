package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rheuma-portal/internal/entities"
	"rheuma-portal/internal/repositories"
	"rheuma-portal/internal/schema"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/types"
	"rheuma-portal/pkg/utils"
)

type fakeEntityRepo struct {
	mu        sync.Mutex
	rows      map[string]map[uint64]entities.Record
	nextID    uint64
	listCalls int
}

func newFakeEntityRepo() *fakeEntityRepo {
	return &fakeEntityRepo{rows: make(map[string]map[uint64]entities.Record)}
}

func (r *fakeEntityRepo) table(e *schema.Entity) map[uint64]entities.Record {
	if r.rows[e.Table] == nil {
		r.rows[e.Table] = make(map[uint64]entities.Record)
	}
	return r.rows[e.Table]
}

func (r *fakeEntityRepo) List(_ context.Context, e *schema.Entity, filter types.Filter) ([]entities.Record, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++

	var out []entities.Record
	for _, rec := range r.table(e) {
		if filter.ActiveOnly && e.ActiveColumn != "" && !rec.Bool(e.ActiveColumn) {
			continue
		}
		if filter.Type != "" && e.TypeColumn != "" && rec[e.TypeColumn] != filter.Type {
			continue
		}
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := out[i].ID()
		b, _ := out[j].ID()
		return a < b
	})
	return out, uint64(len(out)), nil
}

func (r *fakeEntityRepo) Find(_ context.Context, e *schema.Entity, id uint64) (entities.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.table(e)[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return rec.Clone(), nil
}

func (r *fakeEntityRepo) Create(_ context.Context, e *schema.Entity, record entities.Record) (entities.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rec := record.Clone()
	rec["id"] = int64(r.nextID)
	r.table(e)[r.nextID] = rec
	return rec.Clone(), nil
}

func (r *fakeEntityRepo) Update(_ context.Context, e *schema.Entity, id uint64, record entities.Record) (entities.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.table(e)[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	for k, v := range record {
		rec[k] = v
	}
	return rec.Clone(), nil
}

func (r *fakeEntityRepo) Delete(_ context.Context, e *schema.Entity, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.table(e)[id]; !ok {
		return apperrors.ErrNotFound
	}
	for _, child := range e.Children {
		ce, _ := schema.Lookup(child.Entity)
		for cid, rec := range r.table(ce) {
			if fk, _ := rec[child.ForeignKey].(int64); uint64(fk) == id {
				delete(r.table(ce), cid)
			}
		}
	}
	delete(r.table(e), id)
	return nil
}

func (r *fakeEntityRepo) Exists(_ context.Context, e *schema.Entity, id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.table(e)[id]
	return ok, nil
}

func (r *fakeEntityRepo) FileReferences(_ context.Context, e *schema.Entity) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var refs []string
	for _, rec := range r.table(e) {
		for _, col := range e.FileColumns() {
			if s := rec.String(col); s != "" {
				refs = append(refs, s)
			}
		}
	}
	return refs, nil
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string]string
	ttl     map[string]time.Duration
	failing bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string), ttl: make(map[string]time.Duration)}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return fmt.Errorf("redis down")
	}
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	default:
		c.data[key] = fmt.Sprint(v)
	}
	c.ttl[key] = expiration
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return "", fmt.Errorf("redis down")
	}
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return 0, fmt.Errorf("redis down")
	}
	var n int64
	fmt.Sscan(c.data[key], &n)
	n++
	c.data[key] = fmt.Sprint(n)
	return n, nil
}

func (c *fakeCache) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl[key] = expiration
	_, ok := c.data[key]
	return ok, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint64]*entities.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*entities.User)}
}

func (r *fakeUserRepo) add(u entities.User) *entities.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = &u
	return &u
}

func (r *fakeUserRepo) GetUsers(_ context.Context, _ types.Filter) ([]entities.User, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeUserRepo) FindUserByID(_ context.Context, id uint64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindUserByLogin(_ context.Context, login string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrInvalidCredentials
}

func (r *fakeUserRepo) CreateUser(_ context.Context, entity *entities.User) (*entities.User, error) {
	r.mu.Lock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, entity.Username) || strings.EqualFold(u.Email, entity.Email) {
			r.mu.Unlock()
			return nil, apperrors.NewHttpError(409, "Имя пользователя уже занято.", apperrors.ErrConflict, nil)
		}
	}
	r.mu.Unlock()
	return r.add(*entity), nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id uint64, role string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u.Role = role
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n uint64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeRegistrationRepo struct {
	mu   sync.Mutex
	list []entities.Registration
}

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *entities.Registration) (*entities.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *reg
	created.ID = uint64(len(r.list) + 1)
	created.CreatedAt = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	r.list = append(r.list, created)
	return &created, nil
}

func (r *fakeRegistrationRepo) List(_ context.Context, filter types.Filter) ([]entities.Registration, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Registration
	for _, reg := range r.list {
		if filter.Type != "" && reg.SchoolType != filter.Type {
			continue
		}
		out = append(out, reg)
	}
	return out, uint64(len(out)), nil
}

func staffCtx() context.Context {
	return utils.WithUser(context.Background(), 1, "editor")
}

func adminCtx(id uint64) context.Context {
	return utils.WithUser(context.Background(), id, "admin")
}

func userCtx() context.Context {
	return utils.WithUser(context.Background(), 9, "user")
}
