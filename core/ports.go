package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence contract the service runs against. The Postgres
// adapter implements it in production, tests use an in-memory fake.
type Store interface {
	Ping(ctx context.Context) error

	// accounts & roles
	CreateAccount(ctx context.Context, email, passwordHash string) (Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (Account, error)
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	CreateRole(ctx context.Context, accountID uuid.UUID, role Role) error
	ListRoles(ctx context.Context, accountID uuid.UUID) ([]Role, error)

	// profiles
	ListProfiles(ctx context.Context, accountID uuid.UUID) ([]Profile, error)
	ListAllProfiles(ctx context.Context) ([]Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (Profile, error)
	CreateProfile(ctx context.Context, accountID uuid.UUID, username string) (Profile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	// tasks, listed by due_at ascending with undated tasks last
	ListTasks(ctx context.Context, profileID uuid.UUID) ([]Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (Task, error)
	CreateTask(ctx context.Context, profileID uuid.UUID, title, description string, dueAt *time.Time) (Task, error)
	UpdateTask(ctx context.Context, t Task) (Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// revisions, append-only, listed by created_at ascending
	ListRevisions(ctx context.Context, profileID uuid.UUID) ([]Revision, error)
	CreateRevision(ctx context.Context, r Revision) (Revision, error)
}

// Sessions issues and verifies bearer tokens for accounts.
type Sessions interface {
	Issue(accountID uuid.UUID) (token string, expiresAt time.Time, err error)
	Verify(token string) (uuid.UUID, error)
}
