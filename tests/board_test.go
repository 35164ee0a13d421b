package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AfanKulaglic/TodoApp/core"
)

func newBoardFixture(t *testing.T) (*fakeStore, *core.Service, *core.Board) {
	t.Helper()

	fs, svc := newServiceWithFakeStore()
	session := mustSignUp(t, svc, "ana@example.com")
	profile := mustCreateProfile(t, svc, session.Account, "ana")
	return fs, svc, core.NewBoard(discardLogger(), svc, profile.ID)
}

func TestBoardCreate_ReplacesPlaceholderInPlace(t *testing.T) {
	t.Parallel()

	_, _, board := newBoardFixture(t)

	first, err := board.Create(context.Background(), "first", "", "2025-03-01", "08:00")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := board.Create(context.Background(), "second", "", "2025-03-01", "09:00")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	view := board.View()
	group := view.Groups["2025-03-01"]
	if len(group) != 2 {
		t.Fatalf("expected both tasks grouped under the due date, got %d", len(group))
	}
	if group[0].ID != first.ID || group[1].ID != second.ID {
		t.Fatalf("confirmed records did not keep placeholder positions")
	}
	for _, task := range view.Tasks {
		if task.Unconfirmed {
			t.Fatalf("placeholder survived reconciliation: %+v", task)
		}
	}
}

func TestBoardCreate_RollbackOnStoreFailure(t *testing.T) {
	t.Parallel()

	fs, _, board := newBoardFixture(t)

	fs.failCreateTask = true
	if _, err := board.Create(context.Background(), "doomed", "", "2025-03-01", "08:00"); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}

	view := board.View()
	if len(view.Tasks) != 0 {
		t.Fatalf("expected placeholder rolled back, got %v", view.Tasks)
	}
	if len(view.Groups) != 0 {
		t.Fatalf("expected empty grouping after rollback, got %v", view.Groups)
	}
}

func TestBoardCreate_BlankTitleRejected(t *testing.T) {
	t.Parallel()

	fs, _, board := newBoardFixture(t)

	if _, err := board.Create(context.Background(), "", "desc", "", ""); !errors.Is(err, core.ErrTaskInvalidArgs) {
		t.Fatalf("expected ErrTaskInvalidArgs, got %v", err)
	}
	if fs.taskCreateCalls != 0 {
		t.Fatalf("expected no store call for blank title")
	}
}

func TestBoardCreate_WhitespaceTitleNeverPlacesPlaceholder(t *testing.T) {
	t.Parallel()

	fs, _, board := newBoardFixture(t)

	if _, err := board.Create(context.Background(), "   ", "desc", "", ""); !errors.Is(err, core.ErrTaskInvalidArgs) {
		t.Fatalf("expected ErrTaskInvalidArgs, got %v", err)
	}
	if fs.taskCreateCalls != 0 {
		t.Fatalf("expected no store call for whitespace title")
	}
	if view := board.View(); len(view.Tasks) != 0 {
		t.Fatalf("expected no placeholder for a rejected title, got %v", view.Tasks)
	}
}

func TestBoardCreate_UndatedStaysOutOfGroups(t *testing.T) {
	t.Parallel()

	_, _, board := newBoardFixture(t)

	task, err := board.Create(context.Background(), "someday", "", "", "")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if task.DueAt != nil {
		t.Fatalf("expected no due timestamp, got %v", task.DueAt)
	}

	view := board.View()
	if len(view.Tasks) != 1 {
		t.Fatalf("expected the task in the flat list, got %d", len(view.Tasks))
	}
	if len(view.Groups) != 0 {
		t.Fatalf("undated task leaked into the date grouping: %v", view.Groups)
	}
}

func TestBoardToggle_RollbackOnFailure(t *testing.T) {
	t.Parallel()

	fs, _, board := newBoardFixture(t)

	task, err := board.Create(context.Background(), "flaky", "", "2025-03-01", "08:00")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	fs.failUpdateTask = true
	if _, err := board.Toggle(context.Background(), task.ID); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}

	view := board.View()
	if view.Tasks[0].Status != core.StatusPending {
		t.Fatalf("expected optimistic flip rolled back, got %q", view.Tasks[0].Status)
	}
	if got := view.Groups["2025-03-01"][0].Status; got != core.StatusPending {
		t.Fatalf("expected group entry rolled back, got %q", got)
	}
}

func TestBoardToggle_UpdatesGroupEntry(t *testing.T) {
	t.Parallel()

	_, _, board := newBoardFixture(t)

	task, err := board.Create(context.Background(), "chore", "", "2025-03-01", "08:00")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	toggled, err := board.Toggle(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if toggled.Status != core.StatusDone {
		t.Fatalf("expected done, got %q", toggled.Status)
	}

	view := board.View()
	if got := view.Groups["2025-03-01"][0].Status; got != core.StatusDone {
		t.Fatalf("expected group entry flipped, got %q", got)
	}
}

func TestBoardUpdate_RegroupsWhenDueDateMoves(t *testing.T) {
	t.Parallel()

	_, _, board := newBoardFixture(t)

	task, err := board.Create(context.Background(), "movable", "", "2025-03-01", "08:00")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := board.Update(context.Background(), core.Account{}, task.ID, "movable", "", "2025-03-05", "10:00"); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	view := board.View()
	if len(view.Groups["2025-03-01"]) != 0 {
		t.Fatalf("task still grouped under the old date")
	}
	if len(view.Groups["2025-03-05"]) != 1 {
		t.Fatalf("task missing from the new date group: %v", view.Groups)
	}
}

func TestBoardRemove_KeepsStateUntilBothWritesSucceed(t *testing.T) {
	t.Parallel()

	fs, _, board := newBoardFixture(t)

	task, err := board.Create(context.Background(), "sticky", "", "2025-03-01", "08:00")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	fs.failDeleteTask = true
	if err := board.Remove(context.Background(), task.ID); err == nil {
		t.Fatalf("expected remove to fail")
	}
	if len(board.View().Tasks) != 1 {
		t.Fatalf("local state dropped before the delete succeeded")
	}

	fs.failDeleteTask = false
	if err := board.Remove(context.Background(), task.ID); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	view := board.View()
	if len(view.Tasks) != 0 || len(view.Groups) != 0 {
		t.Fatalf("expected empty board after remove, got %+v", view)
	}
}

func TestBoardLoad_PopulatesViewState(t *testing.T) {
	t.Parallel()

	_, svc, board := newBoardFixture(t)

	due := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	mustCreateTask(t, svc, board.ProfileID(), "loaded", "", &due)

	view, err := board.Load(context.Background(), time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(view.Tasks) != 1 || len(view.Groups["2025-03-01"]) != 1 {
		t.Fatalf("unexpected view after load: %+v", view)
	}
	if view.Slide != 0 {
		t.Fatalf("expected slider on today's group, got %d", view.Slide)
	}
	if len(view.Revisions) != 1 || view.Revisions[0].Action != core.ActionCreate {
		t.Fatalf("expected the create revision in the view, got %v", view.Revisions)
	}
}
