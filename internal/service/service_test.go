package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sakif/ganfan/internal/ai"
	"github.com/sakif/ganfan/internal/apperror"
	"github.com/sakif/ganfan/internal/auth"
	"github.com/sakif/ganfan/internal/kv"
	"github.com/sakif/ganfan/internal/model"
)

// =========================================================================
// FAKE REPOSITORIES
// =========================================================================

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*model.User
	nextID int
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperror.Conflict("user", user.Username)
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

type fakeMealRepo struct {
	mu      sync.Mutex
	records []model.MealRecord
	nextID  int
	err     error
}

func (f *fakeMealRepo) Create(_ context.Context, record *model.MealRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	record.ID = fmt.Sprintf("meal-%d", f.nextID)
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeMealRepo) ListByUser(_ context.Context, userID string) ([]model.MealRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []model.MealRecord{}
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// fakePhotos prefixes stored photos so tests can tell them apart.
type fakePhotos struct {
	err error
}

func (f fakePhotos) Put(_ context.Context, userID, photo string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "stored:" + userID + ":" + photo, nil
}

// =========================================================================
// TEST HELPERS
// =========================================================================

var (
	errDB    = errors.New("database is locked")
	errModel = errors.New("model unavailable")
	testNow  = time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() time.Time { return testNow }

func failingGateway() *ai.Gateway {
	return ai.NewGateway(ai.GeneratorFunc(func(context.Context, ai.Request) (ai.Response, error) {
		return ai.Response{}, errModel
	}), testLogger())
}

func textGateway(text string) *ai.Gateway {
	return ai.NewGateway(ai.GeneratorFunc(func(context.Context, ai.Request) (ai.Response, error) {
		return ai.Response{Text: text}, nil
	}), testLogger())
}

type userFixture struct {
	svc    *UserService
	users  *fakeUserRepo
	meals  *fakeMealRepo
	kv     *memKV
	tokens *auth.TokenService
}

func newUserFixture(t *testing.T, gateway *ai.Gateway) *userFixture {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	require.NoError(t, err)

	f := &userFixture{
		users:  newFakeUserRepo(),
		meals:  &fakeMealRepo{},
		kv:     &memKV{data: map[string]string{}},
		tokens: tokens,
	}
	f.svc = NewUserService(f.users, f.meals, tokens, kv.New(f.kv, testLogger()), fakePhotos{}, gateway, testLogger())
	return f
}
