package tests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AfanKulaglic/TodoApp/core"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory core.Store with per-operation failure switches
// and call counters for the optimistic-workflow tests.
type fakeStore struct {
	mu sync.RWMutex

	seq  int64
	base time.Time

	accounts  map[uuid.UUID]core.Account
	roles     map[uuid.UUID][]core.Role
	profiles  map[uuid.UUID]core.Profile
	tasks     map[uuid.UUID]core.Task
	revisions []core.Revision

	profileCreateCalls int
	taskCreateCalls    int

	failCreateTask     bool
	failUpdateTask     bool
	failDeleteTask     bool
	failCreateRevision bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		base:     time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		accounts: make(map[uuid.UUID]core.Account),
		roles:    make(map[uuid.UUID][]core.Role),
		profiles: make(map[uuid.UUID]core.Profile),
		tasks:    make(map[uuid.UUID]core.Task),
	}
}

// tick hands out strictly increasing timestamps; call under the lock.
func (f *fakeStore) tick() time.Time {
	f.seq++
	return f.base.Add(time.Duration(f.seq) * time.Millisecond)
}

func (f *fakeStore) Ping(context.Context) error {
	return nil
}

// Accounts & roles

func (f *fakeStore) CreateAccount(_ context.Context, email, passwordHash string) (core.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.accounts {
		if a.Email == email {
			return core.Account{}, core.ErrEmailTaken
		}
	}

	account := core.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    f.tick(),
	}
	f.accounts[account.ID] = account
	return account, nil
}

func (f *fakeStore) GetAccount(_ context.Context, id uuid.UUID) (core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	account, ok := f.accounts[id]
	if !ok {
		return core.Account{}, core.ErrAccountNotFound
	}
	return account, nil
}

func (f *fakeStore) GetAccountByEmail(_ context.Context, email string) (core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, a := range f.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return core.Account{}, core.ErrAccountNotFound
}

func (f *fakeStore) CreateRole(_ context.Context, accountID uuid.UUID, role core.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.roles[accountID] {
		if r == role {
			return nil
		}
	}
	f.roles[accountID] = append(f.roles[accountID], role)
	return nil
}

func (f *fakeStore) ListRoles(_ context.Context, accountID uuid.UUID) ([]core.Role, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]core.Role, len(f.roles[accountID]))
	copy(out, f.roles[accountID])
	return out, nil
}

// Profiles

func (f *fakeStore) ListProfiles(_ context.Context, accountID uuid.UUID) ([]core.Profile, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []core.Profile
	for _, p := range f.profiles {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) ListAllProfiles(_ context.Context) ([]core.Profile, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]core.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out, nil
}

func (f *fakeStore) GetProfile(_ context.Context, id uuid.UUID) (core.Profile, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	profile, ok := f.profiles[id]
	if !ok {
		return core.Profile{}, core.ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeStore) CreateProfile(_ context.Context, accountID uuid.UUID, username string) (core.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.profileCreateCalls++

	for _, p := range f.profiles {
		if p.Username == username {
			return core.Profile{}, core.ErrUsernameTaken
		}
	}

	profile := core.Profile{
		ID:        uuid.New(),
		AccountID: accountID,
		Username:  username,
		CreatedAt: f.tick(),
	}
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeStore) DeleteProfile(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.profiles[id]; !ok {
		return core.ErrProfileNotFound
	}
	for _, t := range f.tasks {
		if t.ProfileID == id {
			return core.ErrProfileHasTasks
		}
	}
	delete(f.profiles, id)
	return nil
}

// Tasks

func (f *fakeStore) ListTasks(_ context.Context, profileID uuid.UUID) ([]core.Task, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []core.Task
	for _, t := range f.tasks {
		if t.ProfileID == profileID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.DueAt == nil && b.DueAt == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.DueAt == nil:
			return false
		case b.DueAt == nil:
			return true
		case !a.DueAt.Equal(*b.DueAt):
			return a.DueAt.Before(*b.DueAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return out, nil
}

func (f *fakeStore) GetTask(_ context.Context, id uuid.UUID) (core.Task, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	task, ok := f.tasks[id]
	if !ok {
		return core.Task{}, core.ErrTaskNotFound
	}
	return task, nil
}

func (f *fakeStore) CreateTask(_ context.Context, profileID uuid.UUID, title, description string, dueAt *time.Time) (core.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.taskCreateCalls++
	if f.failCreateTask {
		return core.Task{}, errStoreDown
	}

	now := f.tick()
	task := core.Task{
		ID:          uuid.New(),
		ProfileID:   profileID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      core.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
		DueAt:       dueAt,
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, t core.Task) (core.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpdateTask {
		return core.Task{}, errStoreDown
	}

	current, ok := f.tasks[t.ID]
	if !ok {
		return core.Task{}, core.ErrTaskNotFound
	}

	current.Title = t.Title
	current.Description = t.Description
	current.Status = t.Status
	current.DueAt = t.DueAt
	current.UpdatedAt = f.tick()
	f.tasks[t.ID] = current
	return current, nil
}

func (f *fakeStore) DeleteTask(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDeleteTask {
		return errStoreDown
	}
	if _, ok := f.tasks[id]; !ok {
		return core.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

// Revisions

func (f *fakeStore) ListRevisions(_ context.Context, profileID uuid.UUID) ([]core.Revision, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []core.Revision
	for _, r := range f.revisions {
		if r.ProfileID == profileID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) CreateRevision(_ context.Context, r core.Revision) (core.Revision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreateRevision {
		return core.Revision{}, errStoreDown
	}

	r.ID = uuid.New()
	r.CreatedAt = f.tick()
	f.revisions = append(f.revisions, r)
	return r, nil
}

// revisionsForTask filters the append log by task id, ordered by creation.
func (f *fakeStore) revisionsForTask(taskID uuid.UUID) []core.Revision {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []core.Revision
	for _, r := range f.revisions {
		if r.TaskID == taskID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// fakeSessions issues predictable tokens backed by a map.
type fakeSessions struct {
	mu     sync.Mutex
	n      int
	tokens map[string]uuid.UUID
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: make(map[string]uuid.UUID)}
}

func (f *fakeSessions) Issue(accountID uuid.UUID) (string, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.n++
	token := fmt.Sprintf("token-%d", f.n)
	f.tokens[token] = accountID
	return token, time.Now().Add(time.Hour), nil
}

func (f *fakeSessions) Verify(token string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	accountID, ok := f.tokens[token]
	if !ok {
		return uuid.Nil, errors.New("unknown token")
	}
	return accountID, nil
}
