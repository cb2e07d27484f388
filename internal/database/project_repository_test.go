package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plando/internal/database"
	"plando/internal/models"
	"plando/internal/testutil"
)

func seedProjects(t *testing.T, repo *database.Repository, owner string, n int) []*models.Project {
	t.Helper()
	ctx := context.Background()

	created := make([]*models.Project, 0, n)
	for i := 1; i <= n; i++ {
		p, err := repo.CreateProject(ctx, owner, fmt.Sprintf("Project %d", i), "", time.Time{})
		require.NoError(t, err)
		created = append(created, p)
	}
	return created
}

func TestCreateProject(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()

	due := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	p, err := repo.CreateProject(ctx, "alice", "Launch", "ship the thing", due)
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "alice", p.OwnerID)
	assert.Equal(t, "Launch", p.Title)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repo.GetProjectByID(ctx, "alice", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch", got.Title)
	assert.Equal(t, "ship the thing", got.Description)
	assert.Equal(t, due, got.DueDate)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
}

func TestListProjectsNewestFirst(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()
	seedProjects(t, repo, "alice", 4)

	page, cursor, err := repo.ListProjects(ctx, "alice", 6, "")
	require.NoError(t, err)
	require.Len(t, page, 4)
	assert.NotEmpty(t, cursor)

	// Most recently created comes first
	assert.Equal(t, "Project 4", page[0].Title)
	assert.Equal(t, "Project 1", page[3].Title)
	for i := 1; i < len(page); i++ {
		assert.True(t, page[i].CreatedAt.Before(page[i-1].CreatedAt))
	}
}

func TestListProjectsCursorWalk(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()
	seedProjects(t, repo, "alice", 13)

	var (
		after database.Cursor
		seen  []string
		pages int
	)
	for {
		page, next, err := repo.ListProjects(ctx, "alice", 6, after)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		pages++
		for _, p := range page {
			seen = append(seen, p.Title)
		}
		if len(page) < 6 {
			break
		}
		after = next
	}

	assert.Equal(t, 3, pages)
	require.Len(t, seen, 13)

	// No duplicates and no gaps across the page boundaries
	assert.Equal(t, "Project 13", seen[0])
	assert.Equal(t, "Project 7", seen[6])
	assert.Equal(t, "Project 1", seen[12])
}

func TestListProjectsScopedToOwner(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()
	seedProjects(t, repo, "alice", 2)
	seedProjects(t, repo, "bob", 3)

	page, _, err := repo.ListProjects(ctx, "alice", 6, "")
	require.NoError(t, err)
	assert.Len(t, page, 2)

	count, err := repo.CountProjects(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestListProjectsMalformedCursor(t *testing.T) {
	repo := testutil.NewTestRepository(t)

	_, _, err := repo.ListProjects(context.Background(), "alice", 6, database.Cursor("not a cursor"))
	assert.ErrorContains(t, err, "malformed cursor")
}

func TestUpdateProject(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()
	p := seedProjects(t, repo, "alice", 1)[0]

	title := "Renamed"
	require.NoError(t, repo.UpdateProject(ctx, "alice", p.ID, models.ProjectUpdate{Title: &title}))

	got, err := repo.GetProjectByID(ctx, "alice", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	// Untouched fields survive a partial update
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt))
}

func TestDeleteProject(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()
	p := seedProjects(t, repo, "alice", 1)[0]

	require.NoError(t, repo.DeleteProject(ctx, "alice", p.ID))

	_, err := repo.GetProjectByID(ctx, "alice", p.ID)
	assert.ErrorIs(t, err, models.ErrProjectNotFound)

	// Deleting twice reports not found
	assert.ErrorIs(t, repo.DeleteProject(ctx, "alice", p.ID), models.ErrProjectNotFound)
}

func TestDeleteProjectWrongOwner(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()
	p := seedProjects(t, repo, "alice", 1)[0]

	assert.ErrorIs(t, repo.DeleteProject(ctx, "bob", p.ID), models.ErrProjectNotFound)

	count, err := repo.CountProjects(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
