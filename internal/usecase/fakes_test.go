package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/plastinin/srtmexport/internal/domain"
)

// fakeEarthEngine отдаёт заранее заданные последовательности состояний
type fakeEarthEngine struct {
	mu        sync.Mutex
	states    map[string][]domain.Task
	polls     map[string]int
	exports   []ImageExport
	nextID    int
	exportErr error
	// exportErr возвращается после стольких успешных экспортов
	exportErrAfter int
	statusErr      error
}

func newFakeEarthEngine() *fakeEarthEngine {
	return &fakeEarthEngine{
		states: make(map[string][]domain.Task),
		polls:  make(map[string]int),
	}
}

// script задаёт состояния, которые вернёт задача на очередных опросах.
// Последнее состояние повторяется.
func (f *fakeEarthEngine) script(taskID string, tasks ...domain.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range tasks {
		tasks[i].ID = taskID
	}
	f.states[taskID] = tasks
}

func (f *fakeEarthEngine) ExportImage(_ context.Context, export ImageExport) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exportErr != nil && len(f.exports) >= f.exportErrAfter {
		return "", f.exportErr
	}
	f.exports = append(f.exports, export)
	f.nextID++
	id := fmt.Sprintf("TASK%d", f.nextID)
	if _, ok := f.states[id]; !ok {
		f.states[id] = []domain.Task{{ID: id, State: domain.TaskStateCompleted}}
	}
	return id, nil
}

func (f *fakeEarthEngine) TaskStatus(_ context.Context, taskID string) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	seq, ok := f.states[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	n := f.polls[taskID]
	f.polls[taskID] = n + 1
	if n >= len(seq) {
		n = len(seq) - 1
	}
	task := seq[n]
	return &task, nil
}

func (f *fakeEarthEngine) pollCount(taskID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls[taskID]
}

// fakeClock подменяет время и сон поллера
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
	return nil
}

func (c *fakeClock) elapsed() time.Duration {
	var total time.Duration
	for _, d := range c.slept {
		total += d
	}
	return total
}

type fakeStorage struct {
	artifacts map[string][]domain.Artifact
	prefixes  []string
	err       error
}

func (s *fakeStorage) List(_ context.Context, prefix string) ([]domain.Artifact, error) {
	s.prefixes = append(s.prefixes, prefix)
	if s.err != nil {
		return nil, s.err
	}
	return s.artifacts[prefix], nil
}

type fakeQueue struct {
	requests []domain.ExportRequest
	err      error
}

func (q *fakeQueue) Enqueue(_ context.Context, req domain.ExportRequest) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.requests = append(q.requests, req)
	return fmt.Sprintf("job-%d", len(q.requests)), nil
}
