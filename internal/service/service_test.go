package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskcli/internal/backend/filestore"
	"taskcli/internal/service"
	"taskcli/internal/testutil"
)

var t0 = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

func newService(store service.Store, clock *testutil.Clock, opts ...service.Option) *service.Tasks {
	opts = append([]service.Option{service.WithClock(clock.Now)}, opts...)
	return service.New(store, opts...)
}

func TestAdd_ThenList(t *testing.T) {
	store := testutil.NewFakeStore()
	clock := testutil.NewClock(t0)
	svc := newService(store, clock)
	ctx := context.Background()

	for _, desc := range []string{"buy milk", "x", "write the quarterly report", "  padded  "} {
		before, err := svc.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}

		added, err := svc.Add(ctx, desc)
		if err != nil {
			t.Fatalf("add %q failed: %v", desc, err)
		}

		after, err := svc.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(after) != len(before)+1 {
			t.Fatalf("expected %d tasks, got %d", len(before)+1, len(after))
		}

		got := after[len(after)-1]
		if got != added {
			t.Errorf("expected listed task %+v to equal added task %+v", got, added)
		}
		if got.Description != strings.TrimSpace(desc) {
			t.Errorf("expected description %q, got %q", strings.TrimSpace(desc), got.Description)
		}
		if got.Status != service.StatusPending {
			t.Errorf("expected status pending, got %q", got.Status)
		}
		if !got.CreatedAt.Equal(got.UpdatedAt) {
			t.Errorf("expected createdAt == updatedAt, got %v and %v", got.CreatedAt, got.UpdatedAt)
		}
		if len(got.ID) != 8 {
			t.Errorf("expected 8 character id, got %q", got.ID)
		}
		clock.Advance(time.Second)
	}
}

func TestAdd_EmptyDescription(t *testing.T) {
	for _, desc := range []string{"", "   ", "\t\n"} {
		store := testutil.NewFakeStore()
		svc := newService(store, testutil.NewClock(t0))

		_, err := svc.Add(context.Background(), desc)

		var verr *service.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for %q, got %v", desc, err)
		}
		if verr.Field != "description" {
			t.Errorf("expected field description, got %q", verr.Field)
		}
		if store.Saves != 0 {
			t.Errorf("expected no save, got %d", store.Saves)
		}
	}
}

func TestAdd_UniqueIDs(t *testing.T) {
	store := testutil.NewFakeStore()
	svc := newService(store, testutil.NewClock(t0))
	ctx := context.Background()

	const n = 200
	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		task, err := svc.Add(ctx, "task")
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if seen[task.ID] {
			t.Fatalf("duplicate id %q", task.ID)
		}
		seen[task.ID] = true
	}
	if len(store.Tasks()) != n {
		t.Errorf("expected %d tasks, got %d", n, len(store.Tasks()))
	}
}

func TestAdd_RegeneratesOnCollision(t *testing.T) {
	store := testutil.NewFakeStore()
	ids := testutil.SequenceIDs("aaaa0001", "aaaa0001", "aaaa0001", "bbbb0002", "aaaa0001", "cccc0003")
	svc := newService(store, testutil.NewClock(t0), service.WithIDGenerator(ids))
	ctx := context.Background()

	var got []string
	for i := 0; i < 3; i++ {
		task, err := svc.Add(ctx, "task")
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		got = append(got, task.ID)
	}

	want := []string{"aaaa0001", "bbbb0002", "cccc0003"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("add %d: expected id %q, got %q", i, want[i], got[i])
		}
	}
}

func TestAdd_IDExhausted(t *testing.T) {
	store := testutil.NewFakeStore(service.Task{ID: "same", Description: "x", Status: service.StatusPending})
	svc := newService(store, testutil.NewClock(t0), service.WithIDGenerator(func() string { return "same" }))

	_, err := svc.Add(context.Background(), "another")
	if !errors.Is(err, service.ErrIDExhausted) {
		t.Fatalf("expected ErrIDExhausted, got %v", err)
	}
	if store.Saves != 0 {
		t.Errorf("expected no save, got %d", store.Saves)
	}
}

func TestUpdate(t *testing.T) {
	store := testutil.NewFakeStore()
	clock := testutil.NewClock(t0)
	svc := newService(store, clock)
	ctx := context.Background()

	added, err := svc.Add(ctx, "buy milk")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	clock.Advance(time.Hour)
	updated, err := svc.Update(ctx, added.ID, "buy oat milk")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Description != "buy oat milk" {
		t.Errorf("expected new description, got %q", updated.Description)
	}
	if !updated.CreatedAt.Equal(added.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", added.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(t0.Add(time.Hour)) {
		t.Errorf("expected updatedAt %v, got %v", t0.Add(time.Hour), updated.UpdatedAt)
	}
	if updated.ID != added.ID || updated.Status != added.Status {
		t.Errorf("expected only description and updatedAt to change, got %+v", updated)
	}

	stored := store.Tasks()
	if len(stored) != 1 || stored[0] != updated {
		t.Errorf("expected store to hold %+v, got %+v", updated, stored)
	}
}

func TestUpdate_UpdatedAtNeverGoesBackwards(t *testing.T) {
	store := testutil.NewFakeStore()
	clock := testutil.NewClock(t0)
	svc := newService(store, clock)
	ctx := context.Background()

	added, err := svc.Add(ctx, "buy milk")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	clock.Set(t0.Add(-time.Hour))
	updated, err := svc.Update(ctx, added.ID, "buy bread")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.UpdatedAt.Before(added.UpdatedAt) {
		t.Errorf("updatedAt moved backwards: %v -> %v", added.UpdatedAt, updated.UpdatedAt)
	}
}

func TestUpdate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		desc  string
		field string
	}{
		{"missing id", "", "desc", "id"},
		{"missing description", "a1b2c3d4", "", "description"},
		{"blank description", "a1b2c3d4", "   ", "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewFakeStore()
			store.LoadErr = errors.New("store must not be touched")
			svc := newService(store, testutil.NewClock(t0))

			_, err := svc.Update(context.Background(), tt.id, tt.desc)

			var verr *service.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestUpdate_NotFoundLeavesFileUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := filestore.Ensure(path); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	svc := newService(filestore.New(path, nil), testutil.NewClock(t0))
	ctx := context.Background()

	if _, err := svc.Add(ctx, "buy milk"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	_, err = svc.Update(ctx, "nope", "something")

	var nf *service.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != "nope" {
		t.Errorf("expected id nope, got %q", nf.ID)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(before) != string(after) {
		t.Errorf("expected file unchanged\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestMarkStatus(t *testing.T) {
	store := testutil.NewFakeStore()
	clock := testutil.NewClock(t0)
	svc := newService(store, clock)
	ctx := context.Background()

	added, err := svc.Add(ctx, "buy milk")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	for _, status := range []service.Status{service.StatusInProgress, service.StatusDone, service.StatusPending} {
		clock.Advance(time.Minute)
		if _, err := svc.MarkStatus(ctx, added.ID, status); err != nil {
			t.Fatalf("mark %s failed: %v", status, err)
		}

		tasks, err := svc.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if tasks[0].Status != status {
			t.Errorf("expected status %q, got %q", status, tasks[0].Status)
		}
		if !tasks[0].UpdatedAt.Equal(clock.Now()) {
			t.Errorf("expected updatedAt %v, got %v", clock.Now(), tasks[0].UpdatedAt)
		}
		if !tasks[0].CreatedAt.Equal(added.CreatedAt) {
			t.Errorf("createdAt changed: %v", tasks[0].CreatedAt)
		}
	}
}

func TestMarkStatus_Errors(t *testing.T) {
	store := testutil.NewFakeStore(service.Task{ID: "a1b2c3d4", Description: "x", Status: service.StatusPending})
	svc := newService(store, testutil.NewClock(t0))
	ctx := context.Background()

	_, err := svc.MarkStatus(ctx, "zzzz", service.StatusDone)
	var nf *service.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}

	_, err = svc.MarkStatus(ctx, "a1b2c3d4", service.Status("later"))
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for invalid status, got %v", err)
	}

	_, err = svc.MarkStatus(ctx, "", service.StatusDone)
	if !errors.As(err, &verr) || verr.Field != "id" {
		t.Errorf("expected id ValidationError, got %v", err)
	}

	if store.Saves != 0 {
		t.Errorf("expected no saves, got %d", store.Saves)
	}
}

func TestDelete(t *testing.T) {
	store := testutil.NewFakeStore(
		service.Task{ID: "1", Description: "one", Status: service.StatusPending},
		service.Task{ID: "2", Description: "two", Status: service.StatusDone},
		service.Task{ID: "3", Description: "three", Status: service.StatusPending},
	)
	svc := newService(store, testutil.NewClock(t0))
	ctx := context.Background()

	removed, err := svc.Delete(ctx, "2")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed.Description != "two" {
		t.Errorf("expected removed task two, got %+v", removed)
	}

	tasks := store.Tasks()
	if len(tasks) != 2 || tasks[0].ID != "1" || tasks[1].ID != "3" {
		t.Errorf("expected [1 3] in order, got %+v", tasks)
	}
}

func TestDelete_NotFound(t *testing.T) {
	store := testutil.NewFakeStore(service.Task{ID: "1", Description: "one", Status: service.StatusPending})
	svc := newService(store, testutil.NewClock(t0))

	// "01" must not match "1".
	_, err := svc.Delete(context.Background(), "01")

	var nf *service.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err.Error() != "task not found: 01" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if len(store.Tasks()) != 1 {
		t.Errorf("expected collection size unchanged, got %d", len(store.Tasks()))
	}
	if store.Saves != 0 {
		t.Errorf("expected no save, got %d", store.Saves)
	}
}

func TestDeleteAll(t *testing.T) {
	tests := []struct {
		name  string
		tasks []service.Task
	}{
		{"empty", nil},
		{"one", []service.Task{{ID: "1", Status: service.StatusPending}}},
		{"several", []service.Task{
			{ID: "1", Status: service.StatusPending},
			{ID: "2", Status: service.StatusDone},
			{ID: "3", Status: service.StatusInProgress},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewFakeStore(tt.tasks...)
			svc := newService(store, testutil.NewClock(t0))
			ctx := context.Background()

			n, err := svc.DeleteAll(ctx)
			if err != nil {
				t.Fatalf("delete all failed: %v", err)
			}
			if n != len(tt.tasks) {
				t.Errorf("expected %d removed, got %d", len(tt.tasks), n)
			}

			tasks, err := svc.List(ctx)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(tasks) != 0 {
				t.Errorf("expected empty collection, got %d", len(tasks))
			}
		})
	}
}

func TestStoreErrorsPropagate(t *testing.T) {
	readErr := &service.StoreReadError{Path: "tasks.json", Err: os.ErrPermission}
	writeErr := &service.StoreWriteError{Path: "tasks.json", Err: os.ErrPermission}
	ctx := context.Background()

	loadFails := testutil.NewFakeStore()
	loadFails.LoadErr = readErr
	svc := newService(loadFails, testutil.NewClock(t0))
	if _, err := svc.List(ctx); !errors.Is(err, readErr) {
		t.Errorf("list: expected read error, got %v", err)
	}
	if _, err := svc.Add(ctx, "x"); !errors.Is(err, readErr) {
		t.Errorf("add: expected read error, got %v", err)
	}

	saveFails := testutil.NewFakeStore(service.Task{ID: "1", Description: "one", Status: service.StatusPending})
	saveFails.SaveErr = writeErr
	svc = newService(saveFails, testutil.NewClock(t0))
	if _, err := svc.Update(ctx, "1", "uno"); !errors.Is(err, writeErr) {
		t.Errorf("update: expected write error, got %v", err)
	}
	if _, err := svc.DeleteAll(ctx); !errors.Is(err, writeErr) {
		t.Errorf("delete all: expected write error, got %v", err)
	}
	if saveFails.Tasks()[0].Description != "one" {
		t.Error("expected stored task unchanged after failed save")
	}

	if !service.IsStoreError(readErr) || !service.IsStoreError(writeErr) {
		t.Error("expected IsStoreError to recognise store errors")
	}
	if service.IsStoreError(&service.NotFoundError{ID: "x"}) {
		t.Error("NotFoundError is not a store error")
	}
	if !errors.Is(service.Cause(writeErr), os.ErrPermission) {
		t.Errorf("expected cause ErrPermission, got %v", service.Cause(writeErr))
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := filestore.Ensure(path); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	clock := testutil.NewClock(time.Date(2026, 10, 16, 8, 0, 0, 987654321, time.UTC))
	svc := newService(filestore.New(path, nil), clock)
	ctx := context.Background()

	added, err := svc.Add(ctx, "buy milk")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	clock.Advance(time.Millisecond)
	done, err := svc.MarkStatus(ctx, added.ID, service.StatusDone)
	if err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	reloaded, err := filestore.New(path, nil).Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(reloaded) != 1 {
		t.Fatalf("expected 1 task, got %d", len(reloaded))
	}
	got := reloaded[0]
	if got.ID != done.ID || got.Description != done.Description || got.Status != service.StatusDone ||
		!got.CreatedAt.Equal(done.CreatedAt) || !got.UpdatedAt.Equal(done.UpdatedAt) {
		t.Errorf("expected %+v after reload, got %+v", done, got)
	}
}

func TestScenario_AddProgressDelete(t *testing.T) {
	store := testutil.NewFakeStore()
	clock := testutil.NewClock(t0)
	svc := newService(store, clock)
	ctx := context.Background()

	task, err := svc.Add(ctx, "buy milk")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	tasks, _ := svc.List(ctx)
	if len(tasks) != 1 || tasks[0].Status != service.StatusPending {
		t.Fatalf("expected one pending task, got %+v", tasks)
	}

	clock.Advance(time.Minute)
	progressed, err := svc.MarkStatus(ctx, task.ID, service.StatusInProgress)
	if err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if progressed.Status != service.StatusInProgress {
		t.Errorf("expected in-progress, got %q", progressed.Status)
	}
	if !progressed.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", task.CreatedAt, progressed.CreatedAt)
	}

	if _, err := svc.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	tasks, _ = svc.List(ctx)
	if len(tasks) != 0 {
		t.Errorf("expected empty collection, got %+v", tasks)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "in-progress", "done"} {
		if _, err := service.ParseStatus(s); err != nil {
			t.Errorf("ParseStatus(%q) failed: %v", s, err)
		}
	}
	for _, s := range []string{"", "Done", "complete"} {
		if _, err := service.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) should fail", s)
		}
	}
}

func TestNewID(t *testing.T) {
	id := service.NewID()
	if len(id) != 8 {
		t.Fatalf("expected 8 characters, got %q", id)
	}
	for _, r := range id {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Errorf("expected hex id, got %q", id)
		}
	}
}
