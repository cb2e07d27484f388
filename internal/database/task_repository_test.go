package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plando/internal/database"
	"plando/internal/models"
	"plando/internal/testutil"
)

func seedProjectWithTasks(t *testing.T, repo *database.Repository, titles []string) (string, []*models.Task) {
	t.Helper()
	ctx := context.Background()

	p, err := repo.CreateProject(ctx, "alice", "Launch", "", time.Time{})
	require.NoError(t, err)

	tasks := make([]*models.Task, 0, len(titles))
	for i, title := range titles {
		task, err := repo.CreateTask(ctx, p.ID, title, false, i)
		require.NoError(t, err)
		tasks = append(tasks, task)
	}
	return p.ID, tasks
}

func TestCreateAndListTasks(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	projectID, _ := seedProjectWithTasks(t, repo, []string{"Design", "Build", "Ship"})

	tasks, err := repo.ListTasks(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	for i, title := range []string{"Design", "Build", "Ship"} {
		assert.Equal(t, title, tasks[i].Title)
		assert.Equal(t, i, tasks[i].Order)
		assert.False(t, tasks[i].Completed)
	}
}

func TestUpdateTask(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	projectID, tasks := seedProjectWithTasks(t, repo, []string{"Design"})
	ctx := context.Background()

	completed := true
	require.NoError(t, repo.UpdateTask(ctx, projectID, tasks[0].ID, models.TaskUpdate{Completed: &completed}))

	got, err := repo.ListTasks(ctx, projectID)
	require.NoError(t, err)
	assert.True(t, got[0].Completed)
	assert.Equal(t, "Design", got[0].Title)

	assert.ErrorIs(t,
		repo.UpdateTask(ctx, projectID, "missing", models.TaskUpdate{Completed: &completed}),
		models.ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	projectID, tasks := seedProjectWithTasks(t, repo, []string{"Design", "Build"})
	ctx := context.Background()

	require.NoError(t, repo.DeleteTask(ctx, projectID, tasks[0].ID))

	remaining, err := repo.ListTasks(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Build", remaining[0].Title)

	assert.ErrorIs(t, repo.DeleteTask(ctx, projectID, tasks[0].ID), models.ErrTaskNotFound)
}

func TestDeleteProjectCascadesTasks(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	projectID, _ := seedProjectWithTasks(t, repo, []string{"Design", "Build"})
	ctx := context.Background()

	require.NoError(t, repo.DeleteProject(ctx, "alice", projectID))

	count, err := repo.CountTasks(ctx, projectID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReorderTasks(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	projectID, tasks := seedProjectWithTasks(t, repo, []string{"Design", "Build", "Ship"})
	ctx := context.Background()

	// Build, Ship, Design
	require.NoError(t, repo.ReorderTasks(ctx, projectID, []string{
		tasks[1].ID, tasks[2].ID, tasks[0].ID,
	}))

	got, err := repo.ListTasks(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, title := range []string{"Build", "Ship", "Design"} {
		assert.Equal(t, title, got[i].Title)
		assert.Equal(t, i, got[i].Order)
	}
}

func TestReorderTasksIsAtomic(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	projectID, tasks := seedProjectWithTasks(t, repo, []string{"Design", "Build", "Ship"})
	ctx := context.Background()

	// An unknown id mid-batch must roll the whole permutation back
	err := repo.ReorderTasks(ctx, projectID, []string{
		tasks[2].ID, "missing", tasks[0].ID,
	})
	require.ErrorIs(t, err, models.ErrTaskNotFound)

	got, err := repo.ListTasks(ctx, projectID)
	require.NoError(t, err)
	for i, title := range []string{"Design", "Build", "Ship"} {
		assert.Equal(t, title, got[i].Title, "order must be untouched after a failed batch")
		assert.Equal(t, i, got[i].Order)
	}
}
