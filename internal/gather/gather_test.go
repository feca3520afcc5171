package gather

import (
	"context"
	"errors"
	"testing"
)

func TestAll_AllSucceed(t *testing.T) {
	outcomes := All(context.Background(),
		Task{Label: "a", Run: func(context.Context) error { return nil }},
		Task{Label: "b", Run: func(context.Context) error { return nil }},
	)
	if len(outcomes) != 2 {
		t.Fatalf("outcomes: got %d want 2", len(outcomes))
	}
	if err := outcomes.FirstErr(); err != nil {
		t.Errorf("FirstErr: %v", err)
	}
	if len(outcomes.Failed()) != 0 {
		t.Errorf("Failed: %v", outcomes.Failed())
	}
}

func TestAll_CollectsEveryOutcomeInOrder(t *testing.T) {
	boom := errors.New("boom")
	outcomes := All(context.Background(),
		Task{Label: "first", Run: func(context.Context) error { return boom }},
		Task{Label: "second", Run: func(context.Context) error { return nil }},
		Task{Label: "third", Run: func(context.Context) error { return errors.New("also bad") }},
	)
	if len(outcomes) != 3 {
		t.Fatalf("outcomes: got %d want 3", len(outcomes))
	}
	for i, label := range []string{"first", "second", "third"} {
		if outcomes[i].Label != label {
			t.Errorf("outcome %d label: got %q want %q", i, outcomes[i].Label, label)
		}
	}
	if !outcomes[0].Failed() || outcomes[1].Failed() || !outcomes[2].Failed() {
		t.Errorf("failure pattern wrong: %+v", outcomes)
	}
	if !errors.Is(outcomes.FirstErr(), boom) {
		t.Errorf("FirstErr: got %v want %v", outcomes.FirstErr(), boom)
	}
	if len(outcomes.Failed()) != 2 {
		t.Errorf("Failed: got %d want 2", len(outcomes.Failed()))
	}
}

// Tasks must run concurrently: two tasks that each wait on the other would
// deadlock under sequential execution.
func TestAll_RunsTasksConcurrently(t *testing.T) {
	ab := make(chan struct{})
	ba := make(chan struct{})
	outcomes := All(context.Background(),
		Task{Label: "a", Run: func(context.Context) error {
			close(ab)
			<-ba
			return nil
		}},
		Task{Label: "b", Run: func(context.Context) error {
			close(ba)
			<-ab
			return nil
		}},
	)
	if err := outcomes.FirstErr(); err != nil {
		t.Errorf("FirstErr: %v", err)
	}
}

func TestAll_NoTasks(t *testing.T) {
	if outcomes := All(context.Background()); len(outcomes) != 0 {
		t.Errorf("outcomes: got %d want 0", len(outcomes))
	}
}
