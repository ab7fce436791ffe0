package tasks

import "github.com/hibiken/asynq"

// TaskEnqueuer is the slice of asynq.Client the producers need: the
// workflow engine and comment store enqueue delivery tasks through it, and
// tests substitute a recording mock.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
