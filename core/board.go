package core

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Board keeps one profile's optimistic view of its task list. Mutations
// apply to the local state immediately, persist through the service, and
// reconcile afterwards: a placeholder created locally is replaced by the
// store-assigned record on success and rolled back on failure.
type Board struct {
	log       *slog.Logger
	svc       *Service
	profileID uuid.UUID

	mu     sync.Mutex
	tasks  []Task
	groups map[string][]Task
	dates  []string
	slide  int
}

func NewBoard(log *slog.Logger, svc *Service, profileID uuid.UUID) *Board {
	return &Board{
		log:       log,
		svc:       svc,
		profileID: profileID,
		groups:    make(map[string][]Task),
	}
}

func (b *Board) ProfileID() uuid.UUID {
	return b.profileID
}

// Load replaces the board state from the store and returns the full view
// including revisions. The slider index is selected here, once per load.
func (b *Board) Load(ctx context.Context, now time.Time) (BoardView, error) {
	view, err := b.svc.LoadBoard(ctx, b.profileID, now)
	if err != nil {
		return BoardView{}, err
	}

	b.mu.Lock()
	b.tasks = view.Tasks
	b.groups = view.Groups
	b.dates = view.Dates
	b.slide = view.Slide
	b.mu.Unlock()

	return view, nil
}

// View renders the current local state. Revisions are not cached on the
// board; Load fetches them fresh.
func (b *Board) View() BoardView {
	b.mu.Lock()
	defer b.mu.Unlock()

	tasks := make([]Task, len(b.tasks))
	copy(tasks, b.tasks)
	groups := make(map[string][]Task, len(b.groups))
	for d, g := range b.groups {
		cp := make([]Task, len(g))
		copy(cp, g)
		groups[d] = cp
	}
	dates := make([]string, len(b.dates))
	copy(dates, b.dates)

	return BoardView{Tasks: tasks, Groups: groups, Dates: dates, Slide: b.slide}
}

// Create inserts a locally-synthesized placeholder immediately, persists the
// task with its create revision, and then swaps the placeholder for the
// store-assigned record in place. A failed persist rolls the placeholder
// back instead of leaving it stranded.
func (b *Board) Create(ctx context.Context, title, description, dueDate, dueTime string) (Task, error) {
	// validate what the service would reject before inserting a placeholder
	title = strings.TrimSpace(title)
	if title == "" || b.profileID == uuid.Nil {
		return Task{}, ErrTaskInvalidArgs
	}
	dueAt, err := CombineDueDateTime(dueDate, dueTime)
	if err != nil {
		return Task{}, err
	}

	placeholder := Task{
		ID:          uuid.New(),
		ProfileID:   b.profileID,
		Title:       title,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
		DueAt:       dueAt,
		Unconfirmed: true,
	}
	b.insertLocal(placeholder)

	saved, err := b.svc.CreateTask(ctx, b.profileID, title, description, dueAt)
	if err != nil {
		b.log.Debug("create rejected, rolling back placeholder", "placeholder_id", placeholder.ID, "error", err)
		b.removeLocal(placeholder.ID)
		return Task{}, err
	}

	b.replaceLocal(placeholder.ID, saved)
	return saved, nil
}

// Toggle flips the task's status locally first and persists afterwards,
// reverting the local flip when the store rejects the update.
func (b *Board) Toggle(ctx context.Context, taskID uuid.UUID) (Task, error) {
	current, err := b.resolve(ctx, taskID)
	if err != nil {
		return Task{}, err
	}

	newStatus := StatusDone
	if current.Status == StatusDone {
		newStatus = StatusPending
	}
	b.setStatusLocal(taskID, newStatus)

	updated, err := b.svc.ToggleStatus(ctx, current)
	if err != nil {
		b.setStatusLocal(taskID, current.Status)
		return Task{}, err
	}

	b.replaceLocal(taskID, updated)
	return updated, nil
}

// Update persists the edited fields and applies them locally only after the
// store accepted them, regrouping when the due date moved.
func (b *Board) Update(ctx context.Context, editor Account, taskID uuid.UUID, title, description, dueDate, dueTime string) (Task, error) {
	dueAt, err := CombineDueDateTime(dueDate, dueTime)
	if err != nil {
		return Task{}, err
	}

	updated, err := b.svc.UpdateTask(ctx, editor, taskID, title, description, dueAt)
	if err != nil {
		return Task{}, err
	}

	b.replaceLocal(taskID, updated)
	return updated, nil
}

// Remove deletes the task. Local state is dropped only after both the delete
// revision and the row removal succeeded.
func (b *Board) Remove(ctx context.Context, taskID uuid.UUID) error {
	task, err := b.resolve(ctx, taskID)
	if err != nil {
		return err
	}

	if err := b.svc.DeleteTask(ctx, task); err != nil {
		return err
	}

	b.removeLocal(taskID)
	return nil
}

// resolve finds the task locally, falling back to the store when the board
// has not seen it yet (fresh board after a restart). Tasks of other profiles
// stay invisible.
func (b *Board) resolve(ctx context.Context, id uuid.UUID) (Task, error) {
	if task, ok := b.find(id); ok {
		return task, nil
	}
	task, err := b.svc.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if task.ProfileID != b.profileID {
		return Task{}, ErrTaskNotFound
	}
	return task, nil
}

// local state, all under the board mutex

func (b *Board) find(id uuid.UUID) (Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

func (b *Board) insertLocal(t Task) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tasks = append(b.tasks, t)
	if t.DueAt != nil {
		key := DateKey(*t.DueAt)
		b.groups[key] = append(b.groups[key], t)
		b.refreshDates()
	}
}

func (b *Board) removeLocal(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, t := range b.tasks {
		if t.ID == id {
			b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
			break
		}
	}
	b.regroup()
}

// replaceLocal swaps a task in place by id, preserving its position in the
// flat list and in its date group. This is the explicit replace-by-temp-id
// step reconciling a placeholder with the confirmed record.
func (b *Board) replaceLocal(id uuid.UUID, with Task) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, t := range b.tasks {
		if t.ID == id {
			b.tasks[i] = with
			break
		}
	}
	b.regroup()
}

func (b *Board) setStatusLocal(id uuid.UUID, status TaskStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks[i].Status = status
		}
	}
	// the task sits in whatever group holds it, flip it there too
	for _, g := range b.groups {
		for i := range g {
			if g[i].ID == id {
				g[i].Status = status
			}
		}
	}
}

// regroup rebuilds the date grouping from the flat list, keeping the slider
// on a valid index.
func (b *Board) regroup() {
	b.groups = GroupTasksByDue(b.tasks)
	b.refreshDates()
}

func (b *Board) refreshDates() {
	b.dates = GroupDates(b.groups)
	if b.slide >= len(b.dates) {
		b.slide = 0
		if len(b.dates) > 0 {
			b.slide = len(b.dates) - 1
		}
	}
}

// Boards hands out one Board per profile.
type Boards struct {
	log *slog.Logger
	svc *Service

	mu     sync.Mutex
	boards map[uuid.UUID]*Board
}

func NewBoards(log *slog.Logger, svc *Service) *Boards {
	return &Boards{
		log:    log,
		svc:    svc,
		boards: make(map[uuid.UUID]*Board),
	}
}

func (bs *Boards) Get(profileID uuid.UUID) *Board {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	board, ok := bs.boards[profileID]
	if !ok {
		board = NewBoard(bs.log, bs.svc, profileID)
		bs.boards[profileID] = board
	}
	return board
}

// Drop forgets a profile's board, used after the profile is deleted.
func (bs *Boards) Drop(profileID uuid.UUID) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	delete(bs.boards, profileID)
}
