package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrTaskPanic marks a task that panicked instead of returning.
var ErrTaskPanic = errors.New("task panicked")

// Task is one independently failing unit of work.
type Task[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// Outcome is the settled result of a Task.
type Outcome[T any] struct {
	Name     string
	Value    T
	Err      error
	Duration time.Duration
}

// SettleAll runs every task concurrently and waits for all of them. A task's
// failure or panic is captured in its own Outcome and never cancels its
// siblings. Outcomes are returned in task order.
func SettleAll[T any](ctx context.Context, tasks []Task[T]) []Outcome[T] {
	out := make([]Outcome[T], len(tasks))
	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			out[i] = settle(ctx, task)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func settle[T any](ctx context.Context, task Task[T]) (o Outcome[T]) {
	o.Name = task.Name
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			var zero T
			o.Value = zero
			o.Err = fmt.Errorf("%s: %w: %v", task.Name, ErrTaskPanic, r)
		}
		o.Duration = time.Since(start)
	}()
	o.Value, o.Err = task.Run(ctx)
	return o
}
