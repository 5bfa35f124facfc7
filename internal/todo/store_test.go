package todo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Joseda-hg/mestaches/internal/model"
)

func TestAddKeepsOrderAndUniqueIDs(t *testing.T) {
	storage := newMemStorage()
	store := NewStore(storage)
	form := NewForm()

	titles := []string{"Buy milk", "Call mum", "Pay rent", "Water plants"}
	for _, title := range titles {
		form.Title = title
		task, ok := form.Submit(failNotifier(t))
		if !ok {
			t.Fatalf("submit %q rejected", title)
		}
		if err := store.Add(context.Background(), task); err != nil {
			t.Fatalf("add %q: %v", title, err)
		}
	}

	tasks := store.Tasks()
	if len(tasks) != len(titles) {
		t.Fatalf("expected %d tasks, got %d", len(titles), len(tasks))
	}
	seen := make(map[string]struct{}, len(tasks))
	for i, task := range tasks {
		if task.Title != titles[i] {
			t.Fatalf("expected task %d to be %q, got %q", i, titles[i], task.Title)
		}
		if _, ok := seen[task.ID]; ok {
			t.Fatalf("duplicate id %q", task.ID)
		}
		seen[task.ID] = struct{}{}
	}
	if storage.writes != len(titles) {
		t.Fatalf("expected %d storage writes, got %d", len(titles), storage.writes)
	}
}

func TestShortTitleIsRejectedWithoutWrite(t *testing.T) {
	storage := newMemStorage()
	store := NewStore(storage)
	form := NewForm()
	form.Title = "ab"

	var alerts []string
	task, ok := form.Submit(NotifyFunc(func(message string) {
		alerts = append(alerts, message)
	}))
	if ok {
		t.Fatalf("expected short title to be rejected, got %+v", task)
	}
	if len(alerts) != 1 || alerts[0] != French.TitleTooShort {
		t.Fatalf("expected one title alert, got %v", alerts)
	}
	if len(store.Tasks()) != 0 {
		t.Fatalf("expected empty list")
	}
	if storage.writes != 0 {
		t.Fatalf("expected no storage write, got %d", storage.writes)
	}
	if form.Title != "ab" {
		t.Fatalf("expected rejected form to keep its title, got %q", form.Title)
	}
}

func TestToggleTwiceRestoresDoneAndAdvancesUpdatedAt(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(newMemStorage(), WithClock(clock.Now))
	task := newTask(t, "Toggle me", WithClock(clock.Now))
	if err := store.Add(context.Background(), task); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := store.Toggle(context.Background(), task.ID); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	first := store.Tasks()[0]
	if !first.Done {
		t.Fatalf("expected task to be done after first toggle")
	}
	if !first.UpdatedAt.After(task.UpdatedAt) {
		t.Fatalf("expected updatedAt to advance, got %v then %v", task.UpdatedAt, first.UpdatedAt)
	}

	if err := store.Toggle(context.Background(), task.ID); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	second := store.Tasks()[0]
	if second.Done != task.Done {
		t.Fatalf("expected done to be restored to %v", task.Done)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("expected updatedAt to advance again, got %v then %v", first.UpdatedAt, second.UpdatedAt)
	}
	if !second.CreatedAt.Equal(task.CreatedAt) {
		t.Fatalf("expected createdAt to stay %v, got %v", task.CreatedAt, second.CreatedAt)
	}
}

func TestToggleNeverMovesUpdatedAtBackwards(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(newMemStorage(), WithClock(func() time.Time { return base.Add(-time.Hour) }))
	task := newTask(t, "Clock skew", WithClock(func() time.Time { return base }))
	if err := store.Add(context.Background(), task); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := store.Toggle(context.Background(), task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	toggled := store.Tasks()[0]
	if toggled.UpdatedAt.Before(toggled.CreatedAt) {
		t.Fatalf("expected updatedAt >= createdAt, got %v < %v", toggled.UpdatedAt, toggled.CreatedAt)
	}
}

func TestDeleteDeclinedLeavesListUnchanged(t *testing.T) {
	storage := newMemStorage()
	store := NewStore(storage)
	for _, title := range []string{"First", "Second"} {
		if err := store.Add(context.Background(), newTask(t, title)); err != nil {
			t.Fatalf("add %q: %v", title, err)
		}
	}
	before, err := EncodeTasks(store.Tasks())
	if err != nil {
		t.Fatalf("encode before: %v", err)
	}
	writes := storage.writes

	var asked []string
	removed, err := store.Delete(context.Background(), store.Tasks()[0].ID, ConfirmFunc(func(message string) bool {
		asked = append(asked, message)
		return false
	}))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed {
		t.Fatalf("expected declined delete to keep the task")
	}
	if len(asked) != 1 || asked[0] != French.ConfirmDelete {
		t.Fatalf("expected one confirmation prompt, got %v", asked)
	}

	after, err := EncodeTasks(store.Tasks())
	if err != nil {
		t.Fatalf("encode after: %v", err)
	}
	if before != after {
		t.Fatalf("expected list to be unchanged:\n%s\n%s", before, after)
	}
	if storage.writes != writes {
		t.Fatalf("expected no storage write on decline")
	}
}

func TestDeleteAcceptedRemovesInPlace(t *testing.T) {
	store := NewStore(newMemStorage())
	for _, title := range []string{"First", "Second", "Third"} {
		if err := store.Add(context.Background(), newTask(t, title)); err != nil {
			t.Fatalf("add %q: %v", title, err)
		}
	}

	middle := store.Tasks()[1]
	removed, err := store.Delete(context.Background(), middle.ID, Answer(true))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed {
		t.Fatalf("expected task to be removed")
	}

	tasks := store.Tasks()
	if len(tasks) != 2 || tasks[0].Title != "First" || tasks[1].Title != "Third" {
		t.Fatalf("unexpected list after delete: %+v", tasks)
	}
}

func TestUnknownIDIsIgnored(t *testing.T) {
	storage := newMemStorage()
	store := NewStore(storage)
	if err := store.Add(context.Background(), newTask(t, "Only one")); err != nil {
		t.Fatalf("add: %v", err)
	}
	writes := storage.writes

	if err := store.Toggle(context.Background(), "missing"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	removed, err := store.Delete(context.Background(), "missing", ConfirmFunc(func(string) bool {
		t.Fatalf("unexpected confirmation for unknown id")
		return true
	}))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed {
		t.Fatalf("expected nothing to be removed")
	}
	if storage.writes != writes {
		t.Fatalf("expected no storage write, got %d extra", storage.writes-writes)
	}
	if store.Tasks()[0].Done {
		t.Fatalf("expected existing task to be untouched")
	}
}

func TestDeleteWithoutConfirmerDeclines(t *testing.T) {
	store := NewStore(newMemStorage())
	task := newTask(t, "Keep me")
	if err := store.Add(context.Background(), task); err != nil {
		t.Fatalf("add: %v", err)
	}

	removed, err := store.Delete(context.Background(), task.ID, nil)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed || len(store.Tasks()) != 1 {
		t.Fatalf("expected task to be kept")
	}
}

func TestDeleteConfirmerCanReadStore(t *testing.T) {
	store := NewStore(newMemStorage())
	task := newTask(t, "Read while asking")
	if err := store.Add(context.Background(), task); err != nil {
		t.Fatalf("add: %v", err)
	}

	type result struct {
		removed bool
		err     error
	}
	done := make(chan result, 1)
	go func() {
		removed, err := store.Delete(context.Background(), task.ID, ConfirmFunc(func(string) bool {
			return len(store.Tasks()) == 1
		}))
		done <- result{removed: removed, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("delete: %v", res.err)
		}
		if !res.removed || len(store.Tasks()) != 0 {
			t.Fatalf("expected task to be removed")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("delete did not return while the confirmer read the list")
	}
}

func TestDeleteSkipsTaskRemovedWhileAsking(t *testing.T) {
	storage := newMemStorage()
	store := NewStore(storage)
	task := newTask(t, "Removed twice")
	if err := store.Add(context.Background(), task); err != nil {
		t.Fatalf("add: %v", err)
	}

	removed, err := store.Delete(context.Background(), task.ID, ConfirmFunc(func(string) bool {
		if _, err := store.Delete(context.Background(), task.ID, Answer(true)); err != nil {
			t.Fatalf("inner delete: %v", err)
		}
		return true
	}))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed {
		t.Fatalf("expected the outer delete to find nothing left to remove")
	}
	if len(store.Tasks()) != 0 || storage.writes != 2 {
		t.Fatalf("expected one add and one delete write, got %d writes", storage.writes)
	}
}

func TestOnChangeRunsAfterEachMutation(t *testing.T) {
	store := NewStore(newMemStorage())
	var calls, seen int
	store.OnChange(func() {
		calls++
		seen = len(store.Tasks())
	})

	task := newTask(t, "Watched")
	if err := store.Add(context.Background(), task); err != nil {
		t.Fatalf("add: %v", err)
	}
	if calls != 1 || seen != 1 {
		t.Fatalf("expected one call seeing one task, got %d calls seeing %d", calls, seen)
	}

	if err := store.Toggle(context.Background(), "missing"); err != nil {
		t.Fatalf("toggle unknown: %v", err)
	}
	if _, err := store.Delete(context.Background(), task.ID, Answer(false)); err != nil {
		t.Fatalf("declined delete: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no call for unchanged list, got %d", calls)
	}

	if err := store.Toggle(context.Background(), task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := store.Delete(context.Background(), task.ID, Answer(true)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if calls != 3 || seen != 0 {
		t.Fatalf("expected three calls ending on an empty list, got %d calls seeing %d", calls, seen)
	}
}

func TestReloadReproducesList(t *testing.T) {
	storage := newMemStorage()
	store := NewStore(storage)

	form := NewForm()
	form.Title = "With everything"
	form.Description = "Some details"
	form.DueDate = "2026-12-24"
	full, ok := form.Submit(failNotifier(t))
	if !ok {
		t.Fatalf("submit rejected")
	}
	for _, task := range []model.Task{full, newTask(t, "Bare task")} {
		if err := store.Add(context.Background(), task); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := store.Toggle(context.Background(), full.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	reloaded := NewStore(storage)
	reloaded.Load(context.Background())

	want := store.Tasks()
	got := reloaded.Tasks()
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks after reload, got %d", len(want), len(got))
	}
	for i := range want {
		assertSameTask(t, want[i], got[i])
	}
}

func TestLoadFallsBackToEmptyList(t *testing.T) {
	cases := map[string]*memStorage{
		"missing key":   newMemStorage(),
		"invalid json":  seededStorage("{not json"),
		"wrong shape":   seededStorage(`{"id":"a"}`),
		"missing field": seededStorage(`[{"id":"a","title":"No dates","done":false}]`),
		"bad timestamp": seededStorage(`[{"id":"a","title":"Bad","done":false,"createdAt":"yesterday","updatedAt":"today"}]`),
		"read error":    {values: map[string]string{}, getErr: errors.New("disk gone")},
	}

	for name, storage := range cases {
		t.Run(name, func(t *testing.T) {
			store := NewStore(storage)
			store.Load(context.Background())
			if len(store.Tasks()) != 0 {
				t.Fatalf("expected empty list, got %d tasks", len(store.Tasks()))
			}
		})
	}
}

func TestLoadAcceptsBrowserPayload(t *testing.T) {
	payload := `[{"id":"0b7e","title":"Buy milk","description":"","dueDate":"2026-05-01","done":true,` +
		`"createdAt":"2026-04-30T08:15:00.000Z","updatedAt":"2026-04-30T09:00:00.000Z"}]`
	store := NewStore(seededStorage(payload))
	store.Load(context.Background())

	tasks := store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.Description != nil {
		t.Fatalf("expected empty description to load as absent, got %q", *task.Description)
	}
	if task.DueDate == nil || *task.DueDate != "2026-05-01" {
		t.Fatalf("expected due date 2026-05-01, got %v", task.DueDate)
	}
	if !task.Done {
		t.Fatalf("expected task to be done")
	}
	wantCreated := time.Date(2026, 4, 30, 8, 15, 0, 0, time.UTC)
	if !task.CreatedAt.Equal(wantCreated) {
		t.Fatalf("expected createdAt %v, got %v", wantCreated, task.CreatedAt)
	}

	encoded, err := EncodeTasks(tasks)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, want := range []string{`"createdAt":"2026-04-30T08:15:00.000Z"`, `"updatedAt":"2026-04-30T09:00:00.000Z"`} {
		if !strings.Contains(encoded, want) {
			t.Fatalf("expected %s in %s", want, encoded)
		}
	}
}

func TestCustomKey(t *testing.T) {
	storage := newMemStorage()
	store := NewStore(storage, WithKey("todo:v2"))
	if err := store.Add(context.Background(), newTask(t, "Keyed")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, ok := storage.values["todo:v2"]; !ok {
		t.Fatalf("expected list under custom key")
	}
	if _, ok := storage.values[DefaultKey]; ok {
		t.Fatalf("expected default key to stay unused")
	}
}

func TestPersistErrorIsReturned(t *testing.T) {
	storage := newMemStorage()
	storage.setErr = errors.New("read-only")
	store := NewStore(storage)

	err := store.Add(context.Background(), newTask(t, "Unsaved"))
	if err == nil {
		t.Fatalf("expected persist error")
	}
	if !errors.Is(err, storage.setErr) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
	if len(store.Tasks()) != 1 {
		t.Fatalf("expected in-memory list to keep the task")
	}
}

func TestBuyMilkScenario(t *testing.T) {
	storage := newMemStorage()
	store := NewStore(storage)
	store.Load(context.Background())

	form := NewForm()
	form.Title = "Buy milk"
	task, ok := form.Submit(failNotifier(t))
	if !ok {
		t.Fatalf("submit rejected")
	}
	if err := store.Add(context.Background(), task); err != nil {
		t.Fatalf("add: %v", err)
	}

	tasks := store.Tasks()
	if len(tasks) != 1 || tasks[0].Done {
		t.Fatalf("expected one pending task, got %+v", tasks)
	}
	if counts := store.Counts(); counts != (Counts{Todo: 1, Done: 0}) {
		t.Fatalf("unexpected counts after add: %+v", counts)
	}

	if err := store.Toggle(context.Background(), task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !store.Tasks()[0].Done {
		t.Fatalf("expected task to be done")
	}
	if counts := store.Counts(); counts != (Counts{Todo: 0, Done: 1}) {
		t.Fatalf("unexpected counts after toggle: %+v", counts)
	}

	removed, err := store.Delete(context.Background(), task.ID, Answer(true))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed || len(store.Tasks()) != 0 {
		t.Fatalf("expected list to be empty after delete")
	}
	if storage.values[DefaultKey] != "[]" {
		t.Fatalf("expected stored list to be '[]', got %q", storage.values[DefaultKey])
	}
}

type memStorage struct {
	values map[string]string
	writes int
	getErr error
	setErr error
}

func newMemStorage() *memStorage {
	return &memStorage{values: make(map[string]string)}
}

func seededStorage(payload string) *memStorage {
	storage := newMemStorage()
	storage.values[DefaultKey] = payload
	return storage
}

func (m *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memStorage) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.writes++
	m.values[key] = value
	return nil
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTask(t *testing.T, title string, opts ...Option) model.Task {
	t.Helper()
	form := NewForm(opts...)
	form.Title = title
	task, ok := form.Submit(failNotifier(t))
	if !ok {
		t.Fatalf("submit %q rejected", title)
	}
	return task
}

func failNotifier(t *testing.T) Notifier {
	return NotifyFunc(func(message string) {
		t.Fatalf("unexpected alert: %s", message)
	})
}

func assertSameTask(t *testing.T, want, got model.Task) {
	t.Helper()
	if want.ID != got.ID || want.Title != got.Title || want.Done != got.Done {
		t.Fatalf("task mismatch: want %+v, got %+v", want, got)
	}
	if optionalString(want.Description) != optionalString(got.Description) {
		t.Fatalf("description mismatch: want %s, got %s", optionalString(want.Description), optionalString(got.Description))
	}
	if optionalString(want.DueDate) != optionalString(got.DueDate) {
		t.Fatalf("due date mismatch: want %s, got %s", optionalString(want.DueDate), optionalString(got.DueDate))
	}
	if !want.CreatedAt.Equal(got.CreatedAt) || !want.UpdatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("timestamp mismatch: want %v/%v, got %v/%v", want.CreatedAt, want.UpdatedAt, got.CreatedAt, got.UpdatedAt)
	}
}

func optionalString(value *string) string {
	if value == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%q", *value)
}
