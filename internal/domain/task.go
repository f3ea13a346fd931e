package domain

import (
	"errors"
)

// Ошибки домена
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrEmptyTaskID  = errors.New("task id cannot be empty")
)

// Task снимок состояния удалённой задачи.
// Локально не изменяется и не сохраняется.
type Task struct {
	ID           string    `json:"id"`
	State        TaskState `json:"state"`
	Description  string    `json:"description,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// Finished проверяет, дошла ли задача до финального состояния
func (t *Task) Finished() bool {
	return t.State.IsFinal()
}

// Unsuccessful проверяет, что задача отменена или упала
func (t *Task) Unsuccessful() bool {
	return t.State == TaskStateCancelled || t.State == TaskStateFailed
}
