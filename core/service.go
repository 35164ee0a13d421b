package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// An account owns at most this many profiles. Checked here so the create
// call never reaches the store for a capped account; the unique constraint
// on usernames stays authoritative server-side.
const MaxProfilesPerAccount = 3

const unknownUsername = "unknown"

type Service struct {
	log      *slog.Logger
	store    Store
	sessions Sessions
}

func NewService(log *slog.Logger, store Store, sessions Sessions) *Service {
	return &Service{
		log:      log,
		store:    store,
		sessions: sessions,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Profiles

func (s *Service) ListProfiles(ctx context.Context, account Account) ([]Profile, error) {
	return s.store.ListProfiles(ctx, account.ID)
}

func (s *Service) CreateProfile(ctx context.Context, account Account, username string) (Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Profile{}, ErrProfileInvalidArgs
	}

	existing, err := s.store.ListProfiles(ctx, account.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("count profiles: %w", err)
	}
	if len(existing) >= MaxProfilesPerAccount {
		return Profile{}, ErrProfileLimit
	}

	return s.store.CreateProfile(ctx, account.ID, username)
}

// DeleteProfile removes one of the account's profiles. A profile that still
// owns tasks is kept, the store's referential check surfaces as
// ErrProfileHasTasks and the caller's list stays unchanged.
func (s *Service) DeleteProfile(ctx context.Context, account Account, id uuid.UUID) error {
	if _, err := s.AuthorizeProfile(ctx, account, id); err != nil {
		return err
	}
	return s.store.DeleteProfile(ctx, id)
}

// ListAllProfiles exposes every account's profiles to superadmins.
func (s *Service) ListAllProfiles(ctx context.Context, account Account) ([]Profile, error) {
	admin, err := s.IsSuperadmin(ctx, account)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, ErrForbidden
	}
	return s.store.ListAllProfiles(ctx)
}

// AuthorizeProfile resolves the profile and checks the account may act on
// it: its owner always may, a superadmin may act on any profile.
func (s *Service) AuthorizeProfile(ctx context.Context, account Account, profileID uuid.UUID) (Profile, error) {
	profile, err := s.store.GetProfile(ctx, profileID)
	if err != nil {
		return Profile{}, err
	}
	if profile.AccountID == account.ID {
		return profile, nil
	}
	admin, err := s.IsSuperadmin(ctx, account)
	if err != nil {
		return Profile{}, err
	}
	if !admin {
		return Profile{}, ErrForbidden
	}
	return profile, nil
}

// Tasks. Every successful mutation appends exactly one revision with the
// task's and profile's ids.

// LoadBoard fetches the profile's tasks ordered by due timestamp, groups
// them by calendar date, picks the slider index for "now", and fetches the
// revision log joined with profile usernames.
func (s *Service) LoadBoard(ctx context.Context, profileID uuid.UUID, now time.Time) (BoardView, error) {
	tasks, err := s.store.ListTasks(ctx, profileID)
	if err != nil {
		return BoardView{}, fmt.Errorf("load tasks: %w", err)
	}

	groups := GroupTasksByDue(tasks)
	dates := GroupDates(groups)

	revisions, err := s.store.ListRevisions(ctx, profileID)
	if err != nil {
		return BoardView{}, fmt.Errorf("load revisions: %w", err)
	}

	// revisions only store profile_id; usernames come from a separate
	// lookup across all profiles
	all, err := s.store.ListAllProfiles(ctx)
	if err != nil {
		return BoardView{}, fmt.Errorf("load profile names: %w", err)
	}
	names := make(map[uuid.UUID]string, len(all))
	for _, p := range all {
		names[p.ID] = p.Username
	}
	for i := range revisions {
		name, ok := names[revisions[i].ProfileID]
		if !ok {
			name = unknownUsername
		}
		revisions[i].ProfileUsername = name
	}

	return BoardView{
		Tasks:     tasks,
		Groups:    groups,
		Dates:     dates,
		Slide:     SliderIndex(dates, now),
		Revisions: revisions,
	}, nil
}

func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (Task, error) {
	if id == uuid.Nil {
		return Task{}, ErrTaskInvalidArgs
	}
	return s.store.GetTask(ctx, id)
}

func (s *Service) CreateTask(ctx context.Context, profileID uuid.UUID, title, description string, dueAt *time.Time) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" || profileID == uuid.Nil {
		return Task{}, ErrTaskInvalidArgs
	}

	task, err := s.store.CreateTask(ctx, profileID, title, description, dueAt)
	if err != nil {
		return Task{}, err
	}

	rev := Revision{
		TaskID:    task.ID,
		ProfileID: profileID,
		Action:    ActionCreate,
		ChangedData: ChangedData{
			Title:       &task.Title,
			Description: &task.Description,
			DueAt:       task.DueAt,
		},
	}
	if _, err := s.store.CreateRevision(ctx, rev); err != nil {
		// the task stands, the missing audit entry is only logged
		s.log.Error("append create revision failed", "task_id", task.ID, "error", err)
	}
	return task, nil
}

// ToggleStatus flips a task between done and pending. Nothing transitions
// into in_progress here; a stored in_progress task toggles straight to done.
func (s *Service) ToggleStatus(ctx context.Context, task Task) (Task, error) {
	newStatus := StatusDone
	if task.Status == StatusDone {
		newStatus = StatusPending
	}

	task.Status = newStatus
	updated, err := s.store.UpdateTask(ctx, task)
	if err != nil {
		return Task{}, err
	}

	rev := Revision{
		TaskID:      updated.ID,
		ProfileID:   updated.ProfileID,
		Action:      ActionUpdate,
		ChangedData: ChangedData{Status: &newStatus},
	}
	if _, err := s.store.CreateRevision(ctx, rev); err != nil {
		s.log.Error("append toggle revision failed", "task_id", updated.ID, "error", err)
	}
	return updated, nil
}

// UpdateTask persists new field values and appends an update revision
// carrying the new value of every edited field, not a diff against the
// previous record.
func (s *Service) UpdateTask(ctx context.Context, editor Account, id uuid.UUID, title, description string, dueAt *time.Time) (Task, error) {
	title = strings.TrimSpace(title)
	if id == uuid.Nil || title == "" {
		return Task{}, ErrTaskInvalidArgs
	}

	current, err := s.store.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}

	current.Title = title
	current.Description = description
	current.DueAt = dueAt

	updated, err := s.store.UpdateTask(ctx, current)
	if err != nil {
		return Task{}, err
	}

	rev := Revision{
		TaskID:    updated.ID,
		ProfileID: updated.ProfileID,
		Action:    ActionUpdate,
		ChangedData: ChangedData{
			Title:       &updated.Title,
			Description: &updated.Description,
			DueAt:       updated.DueAt,
			UserID:      &editor.ID,
		},
	}
	if _, err := s.store.CreateRevision(ctx, rev); err != nil {
		s.log.Error("append update revision failed", "task_id", updated.ID, "error", err)
	}
	return updated, nil
}

// DeleteTask writes the delete revision first and removes the row second, so
// a crash between the two never loses the audit trail of a task that looks
// deleted. A failed delete after a written revision leaves an orphaned
// revision, which the append-only log tolerates.
func (s *Service) DeleteTask(ctx context.Context, task Task) error {
	if task.ID == uuid.Nil {
		return ErrTaskInvalidArgs
	}

	rev := Revision{
		TaskID:    task.ID,
		ProfileID: task.ProfileID,
		Action:    ActionDelete,
		ChangedData: ChangedData{
			Title:       &task.Title,
			Description: &task.Description,
			Status:      &task.Status,
		},
	}
	if _, err := s.store.CreateRevision(ctx, rev); err != nil {
		return fmt.Errorf("append delete revision: %w", err)
	}

	return s.store.DeleteTask(ctx, task.ID)
}
