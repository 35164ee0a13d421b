package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/AfanKulaglic/TodoApp/core"
)

type DB struct {
	log  *slog.Logger
	conn *sqlx.DB
}

func New(log *slog.Logger, address string) (*DB, error) {
	conn, err := sqlx.Connect("pgx", address)
	if err != nil {
		log.Error("connection problem", "address", address, "error", err)
		return nil, err
	}
	return &DB{log: log, conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Accounts & roles

func (db *DB) CreateAccount(ctx context.Context, email, passwordHash string) (core.Account, error) {
	const q = `
		INSERT INTO accounts(email, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at;
	`

	a := core.Account{Email: email, PasswordHash: passwordHash}
	if err := db.conn.QueryRowxContext(ctx, q, email, passwordHash).Scan(&a.ID, &a.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return core.Account{}, core.ErrEmailTaken
		}
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return a, nil
}

func (db *DB) GetAccount(ctx context.Context, id uuid.UUID) (core.Account, error) {
	const q = `SELECT id, email, password_hash, created_at FROM accounts WHERE id = $1`

	var a core.Account
	if err := db.conn.GetContext(ctx, &a, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Account{}, core.ErrAccountNotFound
		}
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (db *DB) GetAccountByEmail(ctx context.Context, email string) (core.Account, error) {
	const q = `SELECT id, email, password_hash, created_at FROM accounts WHERE email = $1`

	var a core.Account
	if err := db.conn.GetContext(ctx, &a, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Account{}, core.ErrAccountNotFound
		}
		return core.Account{}, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

func (db *DB) CreateRole(ctx context.Context, accountID uuid.UUID, role core.Role) error {
	const q = `
		INSERT INTO roles(account_id, role)
		VALUES ($1, $2)
		ON CONFLICT (account_id, role) DO NOTHING;
	`

	if _, err := db.conn.ExecContext(ctx, q, accountID, string(role)); err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (db *DB) ListRoles(ctx context.Context, accountID uuid.UUID) ([]core.Role, error) {
	const q = `SELECT role FROM roles WHERE account_id = $1`

	var out []core.Role
	if err := db.conn.SelectContext(ctx, &out, q, accountID); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return out, nil
}

// Profiles

func (db *DB) ListProfiles(ctx context.Context, accountID uuid.UUID) ([]core.Profile, error) {
	const q = `
		SELECT id, account_id, username, created_at
		FROM profiles
		WHERE account_id = $1
		ORDER BY created_at ASC;
	`

	var out []core.Profile
	if err := db.conn.SelectContext(ctx, &out, q, accountID); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

func (db *DB) ListAllProfiles(ctx context.Context) ([]core.Profile, error) {
	const q = `
		SELECT id, account_id, username, created_at
		FROM profiles
		ORDER BY lower(username) ASC;
	`

	var out []core.Profile
	if err := db.conn.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list all profiles: %w", err)
	}
	return out, nil
}

func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (core.Profile, error) {
	const q = `SELECT id, account_id, username, created_at FROM profiles WHERE id = $1`

	var p core.Profile
	if err := db.conn.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Profile{}, core.ErrProfileNotFound
		}
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (db *DB) CreateProfile(ctx context.Context, accountID uuid.UUID, username string) (core.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return core.Profile{}, core.ErrProfileInvalidArgs
	}

	const q = `
		INSERT INTO profiles(account_id, username)
		VALUES ($1, $2)
		RETURNING id, created_at;
	`

	p := core.Profile{AccountID: accountID, Username: username}
	if err := db.conn.QueryRowxContext(ctx, q, accountID, username).Scan(&p.ID, &p.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return core.Profile{}, core.ErrUsernameTaken
		}
		return core.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	return p, nil
}

func (db *DB) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM profiles WHERE id = $1`

	res, err := db.conn.ExecContext(ctx, q, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.ErrProfileHasTasks
		}
		return fmt.Errorf("delete profile: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrProfileNotFound
	}
	return nil
}

// Tasks

func (db *DB) ListTasks(ctx context.Context, profileID uuid.UUID) ([]core.Task, error) {
	const q = `
		SELECT id, profile_id, title, COALESCE(description, '') AS description, status, created_at, updated_at, due_at
		FROM tasks
		WHERE profile_id = $1
		ORDER BY due_at ASC NULLS LAST, created_at ASC;
	`

	var out []core.Task
	if err := db.conn.SelectContext(ctx, &out, q, profileID); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (db *DB) GetTask(ctx context.Context, id uuid.UUID) (core.Task, error) {
	const q = `
		SELECT id, profile_id, title, COALESCE(description, '') AS description, status, created_at, updated_at, due_at
		FROM tasks
		WHERE id = $1;
	`

	var t core.Task
	if err := db.conn.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrTaskNotFound
		}
		return core.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (db *DB) CreateTask(ctx context.Context, profileID uuid.UUID, title, description string, dueAt *time.Time) (core.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return core.Task{}, core.ErrTaskInvalidArgs
	}

	const q = `
		INSERT INTO tasks(profile_id, title, description, status, due_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id, profile_id, title, COALESCE(description, '') AS description, status, created_at, updated_at, due_at;
	`

	var t core.Task
	err := db.conn.QueryRowxContext(ctx, q, profileID, title, strings.TrimSpace(description), string(core.StatusPending), dueAt).
		Scan(&t.ID, &t.ProfileID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt, &t.DueAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Task{}, core.ErrProfileNotFound
		}
		if isCheckViolation(err) {
			return core.Task{}, core.ErrTaskInvalidArgs
		}
		return core.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (db *DB) UpdateTask(ctx context.Context, t core.Task) (core.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.ID == uuid.Nil || t.Title == "" {
		return core.Task{}, core.ErrTaskInvalidArgs
	}

	const q = `
		UPDATE tasks
		SET title = $2,
		    description = NULLIF($3, ''),
		    status = $4,
		    due_at = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, profile_id, title, COALESCE(description, '') AS description, status, created_at, updated_at, due_at;
	`

	var out core.Task
	err := db.conn.QueryRowxContext(ctx, q, t.ID, t.Title, strings.TrimSpace(t.Description), string(t.Status), t.DueAt).
		Scan(&out.ID, &out.ProfileID, &out.Title, &out.Description, &out.Status, &out.CreatedAt, &out.UpdatedAt, &out.DueAt)

	if err != nil {
		if isCheckViolation(err) {
			return core.Task{}, core.ErrTaskInvalidArgs
		}
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrTaskNotFound
		}
		return core.Task{}, fmt.Errorf("update task: %w", err)
	}
	return out, nil
}

func (db *DB) DeleteTask(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM tasks WHERE id = $1`

	res, err := db.conn.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrTaskNotFound
	}
	return nil
}

// Revisions

func (db *DB) ListRevisions(ctx context.Context, profileID uuid.UUID) ([]core.Revision, error) {
	const q = `
		SELECT id, task_id, profile_id, action, changed_data, created_at
		FROM revisions
		WHERE profile_id = $1
		ORDER BY created_at ASC;
	`

	var out []core.Revision
	if err := db.conn.SelectContext(ctx, &out, q, profileID); err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	return out, nil
}

func (db *DB) CreateRevision(ctx context.Context, r core.Revision) (core.Revision, error) {
	const q = `
		INSERT INTO revisions(task_id, profile_id, action, changed_data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`

	if err := db.conn.QueryRowxContext(ctx, q, r.TaskID, r.ProfileID, string(r.Action), r.ChangedData).Scan(&r.ID, &r.CreatedAt); err != nil {
		if isCheckViolation(err) {
			return core.Revision{}, core.ErrTaskInvalidArgs
		}
		return core.Revision{}, fmt.Errorf("insert revision: %w", err)
	}
	return r, nil
}

// pg helpers

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
