package update

import (
	"context"

	"github.com/adamancini/ffrelease/internal/apps"
)

// Task is a FetchLatestUpdate call running in the background.
type Task struct {
	cancel     context.CancelFunc
	done       chan struct{}
	descriptor *UpdateDescriptor
	err        error
}

// Start runs FetchLatestUpdate for app in a new goroutine. Cancelling ctx
// or calling Cancel aborts the outstanding request.
func (r *Resolver) Start(ctx context.Context, app apps.App) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		defer cancel()
		t.descriptor, t.err = r.FetchLatestUpdate(ctx, app)
	}()

	return t
}

// Cancel asks the task to stop. It does not wait for it to finish.
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task has finished and returns its outcome.
func (t *Task) Wait() (*UpdateDescriptor, error) {
	<-t.done
	return t.descriptor, t.err
}
