// Package gather runs a batch of tasks concurrently and reports every
// outcome. Unlike an errgroup, a failing task never short-circuits the batch
// and All itself never fails: best-effort teardown wants the full picture,
// not the first problem.
package gather

import (
	"context"
	"sync"
)

// Task is one unit of work. Label identifies the task in its Outcome.
type Task struct {
	Label string
	Run   func(ctx context.Context) error
}

// Outcome is the settled result of one task.
type Outcome struct {
	Label string
	Err   error
}

func (o Outcome) Failed() bool { return o.Err != nil }

type Outcomes []Outcome

// FirstErr returns the first failed outcome's error, or nil if every task
// succeeded.
func (os Outcomes) FirstErr() error {
	for _, o := range os {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}

// Failed returns the outcomes of the tasks that failed.
func (os Outcomes) Failed() Outcomes {
	var failed Outcomes
	for _, o := range os {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// All runs every task in its own goroutine and waits for all of them to
// settle. Outcomes are returned in task order.
func All(ctx context.Context, tasks ...Task) Outcomes {
	outcomes := make(Outcomes, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			outcomes[i] = Outcome{Label: task.Label, Err: task.Run(ctx)}
		}(i, task)
	}
	wg.Wait()
	return outcomes
}
