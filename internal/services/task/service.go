// Package task implements the task synchronizer: a live, rank-ordered view
// of one project's tasks plus validated mutations against the store.
//
// The local list is written only by the subscription path. Mutations go to
// the store and wait for the change notification to echo back, so the view
// never diverges from persisted state at the cost of one round-trip of
// latency.
package task

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"plando/internal/database"
	"plando/internal/events"
	"plando/internal/models"
	"plando/internal/session"
)

// ListState describes the lifecycle of the active task list.
type ListState int

const (
	// StateUnbound means no project is active and the list is empty
	StateUnbound ListState = iota
	// StateLoading means a project was activated and the first snapshot is
	// still in flight
	StateLoading
	// StateLive means the list mirrors the store and refreshes on pushes
	StateLive
)

func (s ListState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLive:
		return "live"
	default:
		return "unbound"
	}
}

// CreateTaskRequest encapsulates the data needed to add a task.
type CreateTaskRequest struct {
	ProjectID string
	Title     string
	Completed bool
	Order     int // rank within the project; negative appends at the end
}

// Synchronizer maintains the active project's task list. The list is owned
// exclusively by the subscription consumer; mutation methods never touch it.
type Synchronizer struct {
	store   database.DataStore
	session *session.Session
	events  events.Publisher

	mu        sync.Mutex
	projectID string
	tasks     []*models.Task
	state     ListState

	// Subscription lifecycle: cancel stops the consumer, done is closed
	// when it has fully exited
	cancel context.CancelFunc
	done   chan struct{}

	// Coalesced change signal for the UI
	notify chan struct{}
}

// NewSynchronizer creates a synchronizer bound to the given session. The
// events publisher may be nil, in which case the list refreshes only on
// SetActiveProject and the mutations' own echoes are skipped.
func NewSynchronizer(store database.DataStore, sess *session.Session, pub events.Publisher) *Synchronizer {
	return &Synchronizer{
		store:   store,
		session: sess,
		events:  pub,
		notify:  make(chan struct{}, 1),
	}
}

// SetActiveProject switches the live view to projectID. The prior
// subscription consumer is stopped and fully drained before the new
// subscription opens, so two listeners never race on the same list.
// An empty projectID unbinds the view.
func (s *Synchronizer) SetActiveProject(ctx context.Context, projectID string) error {
	s.teardown()

	if projectID == "" {
		s.unbind()
		return nil
	}

	// Signed out is a terminal "no data, not loading" state, never Loading
	if s.session.CurrentUserID() == "" {
		s.unbind()
		return models.ErrAuthRequired
	}

	s.mu.Lock()
	s.projectID = projectID
	s.tasks = nil
	s.state = StateLoading
	s.mu.Unlock()
	s.signal()

	// Open the subscription before the snapshot read so a change landing
	// while the read is in flight queues up instead of being lost.
	var (
		subCtx context.Context
		cancel context.CancelFunc
		ch     <-chan events.Event
	)
	if s.events != nil {
		if err := s.events.Subscribe(projectID); err != nil {
			s.unbind()
			return err
		}
		subCtx, cancel = context.WithCancel(context.Background())
		var err error
		ch, err = s.events.Listen(subCtx)
		if err != nil {
			cancel()
			s.unbind()
			return err
		}
	}

	tasks, err := s.store.ListTasks(ctx, projectID)
	if err != nil {
		if cancel != nil {
			cancel()
		}
		s.unbind()
		return &models.StoreError{Op: "list tasks", Err: err}
	}

	s.mu.Lock()
	if s.projectID != projectID {
		// Switched again while the snapshot was in flight
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		return nil
	}
	s.tasks = tasks
	s.state = StateLive
	if ch != nil {
		done := make(chan struct{})
		s.cancel = cancel
		s.done = done
		s.mu.Unlock()
		s.signal()
		go s.consume(subCtx, projectID, ch, done)
		return nil
	}
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.signal()

	return nil
}

// unbind clears the view to the terminal "no data, not loading" state.
func (s *Synchronizer) unbind() {
	s.mu.Lock()
	s.projectID = ""
	s.tasks = nil
	s.state = StateUnbound
	s.mu.Unlock()
	s.signal()
}

// teardown stops the current subscription consumer and waits for it to exit.
// The wait happens outside the state lock: the consumer needs that lock to
// finish its in-flight refresh.
func (s *Synchronizer) teardown() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// consume refreshes the list from the store on every matching push. Refresh
// failures are logged and skipped; the subscription itself stays up.
func (s *Synchronizer) consume(ctx context.Context, projectID string, ch <-chan events.Event, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.ProjectID != projectID {
				continue
			}

			tasks, err := s.store.ListTasks(ctx, projectID)
			if err != nil {
				slog.Warn("task list refresh failed", "project_id", projectID, "error", err)
				continue
			}

			s.mu.Lock()
			if s.projectID == projectID {
				s.tasks = tasks
				s.state = StateLive
			}
			s.mu.Unlock()
			s.signal()
		}
	}
}

// FetchOnce performs a one-shot ordered read without touching the live
// subscription. Used to populate a list outside a live view.
func (s *Synchronizer) FetchOnce(ctx context.Context, projectID string) ([]*models.Task, error) {
	if s.session.CurrentUserID() == "" {
		return nil, models.ErrAuthRequired
	}
	tasks, err := s.store.ListTasks(ctx, projectID)
	if err != nil {
		return nil, &models.StoreError{Op: "list tasks", Err: err}
	}
	return tasks, nil
}

// AddTask validates and persists a new task. Validation happens before any
// store write: a bad title or a project at the task cap produces no store
// interaction beyond (at most) a count read for inactive projects.
func (s *Synchronizer) AddTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	owner := s.session.CurrentUserID()
	if owner == "" {
		return nil, models.ErrAuthRequired
	}

	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}

	count, err := s.taskCount(ctx, req.ProjectID)
	if err != nil {
		return nil, &models.StoreError{Op: "count tasks", Err: err}
	}
	if count >= models.MaxTasksPerProject {
		return nil, ErrTaskLimit
	}

	order := req.Order
	if order < 0 {
		order = count
	}

	created, err := s.store.CreateTask(ctx, req.ProjectID, title, req.Completed, order)
	if err != nil {
		return nil, &models.StoreError{Op: "create task", Err: err}
	}

	events.PublishChange(s.events, owner, req.ProjectID)
	return created, nil
}

// UpdateTask applies a partial update. A present title is re-validated and
// trimmed before the write.
func (s *Synchronizer) UpdateTask(ctx context.Context, projectID, taskID string, upd models.TaskUpdate) error {
	owner := s.session.CurrentUserID()
	if owner == "" {
		return models.ErrAuthRequired
	}

	if upd.Title != nil {
		title, err := validateTitle(*upd.Title)
		if err != nil {
			return err
		}
		upd.Title = &title
	}

	if err := s.store.UpdateTask(ctx, projectID, taskID, upd); err != nil {
		return &models.StoreError{Op: "update task", Err: err}
	}

	events.PublishChange(s.events, owner, projectID)
	return nil
}

// DeleteTask removes a task unconditionally.
func (s *Synchronizer) DeleteTask(ctx context.Context, projectID, taskID string) error {
	owner := s.session.CurrentUserID()
	if owner == "" {
		return models.ErrAuthRequired
	}

	if err := s.store.DeleteTask(ctx, projectID, taskID); err != nil {
		return &models.StoreError{Op: "delete task", Err: err}
	}

	events.PublishChange(s.events, owner, projectID)
	return nil
}

// ReorderTasks persists a permutation of the project's tasks: orderedIDs[i]
// receives rank i. The store applies the batch atomically, so a mid-batch
// failure leaves the previous ranking intact.
func (s *Synchronizer) ReorderTasks(ctx context.Context, projectID string, orderedIDs []string) error {
	owner := s.session.CurrentUserID()
	if owner == "" {
		return models.ErrAuthRequired
	}

	if err := s.store.ReorderTasks(ctx, projectID, orderedIDs); err != nil {
		return &models.StoreError{Op: "reorder tasks", Err: err}
	}

	events.PublishChange(s.events, owner, projectID)
	return nil
}

// Tasks returns a snapshot of the active project's task list.
func (s *Synchronizer) Tasks() []*models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// State returns the list's lifecycle state.
func (s *Synchronizer) State() ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveProjectID returns the project the view is bound to, or "".
func (s *Synchronizer) ActiveProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectID
}

// Updates returns a coalesced signal channel that fires whenever the local
// list is replaced.
func (s *Synchronizer) Updates() <-chan struct{} {
	return s.notify
}

// Close unbinds the view and stops the subscription consumer.
func (s *Synchronizer) Close() {
	s.teardown()
	s.unbind()
}

func (s *Synchronizer) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// taskCount uses the live list when the project is active, avoiding a store
// round-trip; otherwise it falls back to a count query.
func (s *Synchronizer) taskCount(ctx context.Context, projectID string) (int, error) {
	s.mu.Lock()
	if s.projectID == projectID && s.state == StateLive {
		count := len(s.tasks)
		s.mu.Unlock()
		return count, nil
	}
	s.mu.Unlock()
	return s.store.CountTasks(ctx, projectID)
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if len([]rune(title)) > models.MaxTaskTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}
