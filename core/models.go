package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

type RevisionAction string

const (
	ActionCreate RevisionAction = "create"
	ActionUpdate RevisionAction = "update"
	ActionDelete RevisionAction = "delete"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleSuperadmin Role = "superadmin"
)

type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Profile struct {
	ID        uuid.UUID `db:"id" json:"id"`
	AccountID uuid.UUID `db:"account_id" json:"account_id"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Task struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ProfileID   uuid.UUID  `db:"profile_id" json:"profile_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Status      TaskStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DueAt       *time.Time `db:"due_at" json:"due_at,omitempty"`

	// Unconfirmed marks an optimistic placeholder whose ID was assigned
	// locally and is still waiting for the store record.
	Unconfirmed bool `db:"-" json:"unconfirmed,omitempty"`
}

// ChangedData carries only the fields a revision touched, not a full record
// copy. For delete revisions it holds a snapshot of the task's last state.
type ChangedData struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	DueAt       *time.Time  `json:"due_at,omitempty"`
	UserID      *uuid.UUID  `json:"user_id,omitempty"`
}

func (c ChangedData) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *ChangedData) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into ChangedData", src)
	}
}

type Revision struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	TaskID      uuid.UUID      `db:"task_id" json:"task_id"`
	ProfileID   uuid.UUID      `db:"profile_id" json:"profile_id"`
	Action      RevisionAction `db:"action" json:"action"`
	ChangedData ChangedData    `db:"changed_data" json:"changed_data"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`

	// resolved at read time, revisions only store profile_id
	ProfileUsername string `db:"-" json:"profile_username,omitempty"`
}

type Session struct {
	Account   Account   `json:"account"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BoardView is everything one profile's task page renders: the flat task
// list, the date-grouped slider view with its selected index, and the
// revision history.
type BoardView struct {
	Tasks     []Task            `json:"tasks"`
	Groups    map[string][]Task `json:"tasks_by_date"`
	Dates     []string          `json:"dates"`
	Slide     int               `json:"slide"`
	Revisions []Revision        `json:"revisions"`
}
