// Package todo holds the task list, the new-task form and the ports the
// user interfaces answer for confirmation and alerts.
package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Joseda-hg/mestaches/internal/model"
	"github.com/sirupsen/logrus"
)

// Storage is a persistent string key-value store.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type Counts struct {
	Todo int
	Done int
}

// Count derives the pending and completed totals of a list.
func Count(tasks []model.Task) Counts {
	var counts Counts
	for _, task := range tasks {
		if task.Done {
			counts.Done++
		} else {
			counts.Todo++
		}
	}
	return counts
}

// Store owns the in-memory task list and mirrors it to storage after every
// change.
type Store struct {
	mu        sync.Mutex
	storage   Storage
	opts      options
	tasks     []model.Task
	listeners []func()
}

func NewStore(storage Storage, opts ...Option) *Store {
	return &Store{storage: storage, opts: buildOptions(opts)}
}

func (s *Store) Messages() Messages {
	return s.opts.messages
}

// Load seeds the list from storage. A missing, unreadable or malformed
// payload leaves the list empty.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil
	log := s.opts.logger.WithField("key", s.opts.key)

	payload, ok, err := s.storage.Get(ctx, s.opts.key)
	if err != nil {
		log.WithError(err).Warn("read stored tasks")
		return
	}
	if !ok {
		log.Debug("no stored tasks")
		return
	}

	tasks, err := decodeTasks(payload)
	if err != nil {
		log.WithError(err).Warn("discard stored tasks")
		return
	}

	s.tasks = tasks
	log.WithField("count", len(tasks)).Info("loaded tasks")
}

// OnChange registers fn to run after every add, toggle or delete that changed
// the list. Listeners run without the store lock held.
func (s *Store) OnChange(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) changed() {
	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Tasks returns a copy of the list in insertion order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]model.Task, len(s.tasks))
	copy(result, s.tasks)
	return result
}

func (s *Store) Counts() Counts {
	return Count(s.Tasks())
}

// Add appends a task. Identifier uniqueness is up to the caller.
func (s *Store) Add(ctx context.Context, task model.Task) error {
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.opts.logger.WithFields(logrus.Fields{"id": task.ID, "title": task.Title}).Info("task added")
	err := s.persist(ctx)
	s.mu.Unlock()

	s.changed()
	return err
}

// Toggle flips the done flag of the matching task and refreshes UpdatedAt.
// Unknown ids are ignored.
func (s *Store) Toggle(ctx context.Context, id string) error {
	s.mu.Lock()
	index := s.indexOf(id)
	if index < 0 {
		s.mu.Unlock()
		return nil
	}

	task := &s.tasks[index]
	task.Done = !task.Done
	task.UpdatedAt = laterOf(s.opts.now(), task.UpdatedAt)
	s.opts.logger.WithFields(logrus.Fields{"id": id, "done": task.Done}).Info("task toggled")
	err := s.persist(ctx)
	s.mu.Unlock()

	s.changed()
	return err
}

// Delete removes the matching task once confirm agrees. It reports whether a
// task was removed. Unknown ids are ignored without asking. The question is
// asked without the store lock, so the task may be gone by the time the
// answer arrives; that counts as nothing removed.
func (s *Store) Delete(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	s.mu.Lock()
	found := s.indexOf(id) >= 0
	s.mu.Unlock()
	if !found {
		return false, nil
	}

	if confirm == nil || !confirm.Confirm(s.opts.messages.ConfirmDelete) {
		s.opts.logger.WithField("id", id).Debug("delete declined")
		return false, nil
	}

	s.mu.Lock()
	index := s.indexOf(id)
	if index < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	s.opts.logger.WithField("id", id).Info("task deleted")
	err := s.persist(ctx)
	s.mu.Unlock()

	s.changed()
	return true, err
}

func (s *Store) indexOf(id string) int {
	for i, task := range s.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) error {
	payload, err := EncodeTasks(s.tasks)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, s.opts.key, payload); err != nil {
		s.opts.logger.WithError(err).Error("persist tasks")
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

// EncodeTasks serializes a list the way it is stored. A nil list encodes as
// an empty array.
func EncodeTasks(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(data), nil
}

func decodeTasks(payload string) ([]model.Task, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(payload), &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	for i := range tasks {
		tasks[i].Description = nonEmpty(tasks[i].Description)
		tasks[i].DueDate = nonEmpty(tasks[i].DueDate)
	}
	return tasks, nil
}

func nonEmpty(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}

func laterOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}
