// Package project implements the project pager: a forward-paginated,
// newest-first window over one user's projects, kept consistent across
// create and delete operations by rebuilding its cursor cache.
package project

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"plando/internal/database"
	"plando/internal/events"
	"plando/internal/models"
	"plando/internal/session"
)

// Pager presents one page of a user's projects at a time. It exclusively
// owns the current page, the page counters, and the cursor cache; nothing
// else writes them. All state is derived and rebuildable from the store.
type Pager struct {
	store   database.DataStore
	session *session.Session
	events  events.Publisher

	mu          sync.Mutex
	projects    []*models.Project
	currentPage int
	totalPages  int
	totalCount  int
	cursors     []database.Cursor
	lastErr     error
}

// NewPager creates a pager bound to the given session. The events publisher
// may be nil when no live peers exist.
func NewPager(store database.DataStore, sess *session.Session, pub events.Publisher) *Pager {
	return &Pager{
		store:       store,
		session:     sess,
		events:      pub,
		currentPage: 1,
	}
}

// Refresh rebuilds the cursor cache and loads page 1. Call it after sign-in
// before any other pager operation.
func (p *Pager) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.rebuildCursorCache(ctx); err != nil {
		return err
	}
	return p.loadPage(ctx, 1)
}

// LoadPage fetches the given page and makes it current. Page 1 is a direct
// top-N query; pages beyond 1 require a cursor computed by a prior rebuild,
// and a missing cursor surfaces as models.ErrStaleCursor (a contract
// violation, not a user condition).
func (p *Pager) LoadPage(ctx context.Context, page int) ([]*models.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadPage(ctx, page); err != nil {
		return nil, err
	}
	return p.snapshot(), nil
}

func (p *Pager) loadPage(ctx context.Context, page int) error {
	owner := p.session.CurrentUserID()
	if owner == "" {
		return models.ErrAuthRequired
	}
	if page < 1 {
		return fmt.Errorf("%w: %d", ErrPageOutOfRange, page)
	}

	var after database.Cursor
	if page > 1 {
		if page-2 >= len(p.cursors) || p.cursors[page-2] == "" {
			return fmt.Errorf("no cursor for page %d: %w", page, models.ErrStaleCursor)
		}
		after = p.cursors[page-2]
	}

	projects, _, err := p.store.ListProjects(ctx, owner, models.PageSize, after)
	if err != nil {
		return p.fail("load page", err)
	}

	p.projects = projects
	p.currentPage = page
	return nil
}

// RebuildCursorCache recomputes the total count and page count, then walks
// the store page by page from the top recording each boundary marker. The
// walk costs one round-trip per page, which is acceptable at the tens of
// projects this view is built for.
func (p *Pager) RebuildCursorCache(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rebuildCursorCache(ctx)
}

func (p *Pager) rebuildCursorCache(ctx context.Context) error {
	owner := p.session.CurrentUserID()
	if owner == "" {
		return models.ErrAuthRequired
	}

	count, err := p.store.CountProjects(ctx, owner)
	if err != nil {
		return p.fail("count projects", err)
	}

	p.totalCount = count
	p.totalPages = (count + models.PageSize - 1) / models.PageSize
	p.cursors = nil

	var after database.Cursor
	for page := 1; page <= p.totalPages; page++ {
		records, next, err := p.store.ListProjects(ctx, owner, models.PageSize, after)
		if err != nil {
			return p.fail("walk cursors", err)
		}
		if len(records) == 0 {
			break
		}
		p.cursors = append(p.cursors, next)
		after = next
		if len(records) < models.PageSize {
			break
		}
	}

	return nil
}

// AddProject validates and persists a new project for the current user, then
// rebuilds the cursor cache and returns to page 1, where the new record
// appears first (ordering is by creation time descending).
func (p *Pager) AddProject(ctx context.Context, title, description string, dueDate time.Time) (*models.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	owner := p.session.CurrentUserID()
	if owner == "" {
		return nil, models.ErrAuthRequired
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len([]rune(title)) > models.MaxProjectTitleLength {
		return nil, ErrTitleTooLong
	}

	created, err := p.store.CreateProject(ctx, owner, title, description, dueDate)
	if err != nil {
		return nil, p.fail("create project", err)
	}

	if err := p.rebuildCursorCache(ctx); err != nil {
		return nil, err
	}
	if err := p.loadPage(ctx, 1); err != nil {
		return nil, err
	}

	events.PublishChange(p.events, owner, "")
	return created, nil
}

// EditProject applies an in-place update. The sort key is creation time, so
// edits shift no page boundaries; only the local page state is patched and
// no cache rebuild happens.
func (p *Pager) EditProject(ctx context.Context, id string, upd models.ProjectUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	owner := p.session.CurrentUserID()
	if owner == "" {
		return models.ErrAuthRequired
	}

	if err := p.store.UpdateProject(ctx, owner, id, upd); err != nil {
		return p.fail("update project", err)
	}

	for _, proj := range p.projects {
		if proj.ID != id {
			continue
		}
		if upd.Title != nil {
			proj.Title = *upd.Title
		}
		if upd.Description != nil {
			proj.Description = *upd.Description
		}
		if upd.DueDate != nil {
			proj.DueDate = *upd.DueDate
		}
		break
	}

	events.PublishChange(p.events, owner, "")
	return nil
}

// DeleteProject removes the record and repairs pagination: every cursor at
// or beyond the deleted record is stale, so the cache is rebuilt
// unconditionally, then the current page is re-fetched, stepping back one
// page when the current page emptied and is not page 1.
func (p *Pager) DeleteProject(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	owner := p.session.CurrentUserID()
	if owner == "" {
		return models.ErrAuthRequired
	}

	if err := p.store.DeleteProject(ctx, owner, id); err != nil {
		return p.fail("delete project", err)
	}

	remaining := p.projects[:0]
	for _, proj := range p.projects {
		if proj.ID != id {
			remaining = append(remaining, proj)
		}
	}
	p.projects = remaining
	emptied := len(p.projects) == 0

	if err := p.rebuildCursorCache(ctx); err != nil {
		return err
	}

	target := p.currentPage
	if emptied && p.currentPage > 1 {
		target = p.currentPage - 1
	}
	if p.totalPages == 0 {
		target = 1
	} else if target > p.totalPages {
		target = p.totalPages
	}

	if err := p.loadPage(ctx, target); err != nil {
		return err
	}

	events.PublishChange(p.events, owner, "")
	return nil
}

// ChangePage navigates to page n. Out-of-range requests are a guarded no-op.
func (p *Pager) ChangePage(ctx context.Context, n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n < 1 || n > p.totalPages {
		return nil
	}
	return p.loadPage(ctx, n)
}

// Reset clears all local state. Call on sign-out: the terminal state is
// "no data, not loading" with the page counter back at 1.
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.projects = nil
	p.cursors = nil
	p.currentPage = 1
	p.totalPages = 0
	p.totalCount = 0
	p.lastErr = nil
}

// Projects returns the current page's records.
func (p *Pager) Projects() []*models.Project {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// CurrentPage returns the 1-based current page number.
func (p *Pager) CurrentPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentPage
}

// TotalPages returns ceil(totalCount / pageSize) as of the last rebuild.
func (p *Pager) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalPages
}

// TotalCount returns the record count as of the last rebuild.
func (p *Pager) TotalCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalCount
}

// Err returns the most recent store error. The field is last-error-wins;
// concurrent failures overwrite each other's detail.
func (p *Pager) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Pager) snapshot() []*models.Project {
	out := make([]*models.Project, len(p.projects))
	copy(out, p.projects)
	return out
}

// fail records and wraps a store failure. No automatic retry: the caller
// decides whether to re-trigger the operation.
func (p *Pager) fail(op string, err error) error {
	wrapped := &models.StoreError{Op: op, Err: err}
	p.lastErr = wrapped
	return wrapped
}
