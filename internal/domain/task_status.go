package domain

// TaskState представляет состояние удалённой задачи экспорта
type TaskState string

const (
	TaskStatePending    TaskState = "pending"    // Задача принята, ожидает запуска
	TaskStateRunning    TaskState = "running"    // Задача выполняется
	TaskStateCancelling TaskState = "cancelling" // Запрошена отмена
	TaskStateCompleted  TaskState = "completed"  // Задача успешно завершена
	TaskStateCancelled  TaskState = "cancelled"  // Задача отменена
	TaskStateFailed     TaskState = "failed"     // Задача завершилась с ошибкой
)

// IsValid проверяет валидность состояния
func (s TaskState) IsValid() bool {
	switch s {
	case TaskStatePending, TaskStateRunning, TaskStateCancelling,
		TaskStateCompleted, TaskStateCancelled, TaskStateFailed:
		return true
	}
	return false
}

// IsFinal проверяет, является ли состояние финальным
func (s TaskState) IsFinal() bool {
	return s == TaskStateCompleted || s == TaskStateCancelled || s == TaskStateFailed
}

func (s TaskState) String() string {
	return string(s)
}
