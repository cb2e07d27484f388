package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"plando/internal/services/project"
	"plando/internal/services/task"
	"plando/internal/session"
	"plando/internal/testutil"
)

func TestWatchSessionResetsViewsOnSignOut(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	sess := session.New()
	sess.SignIn("alice")
	ctx := context.Background()

	pager := project.NewPager(repo, sess, nil)
	proj, err := pager.AddProject(ctx, "Launch", "", time.Time{})
	require.NoError(t, err)

	sync := task.NewSynchronizer(repo, sess, nil)
	defer sync.Close()
	require.NoError(t, sync.SetActiveProject(ctx, proj.ID))

	go watchSession(ctx, sess.Changes(), pager, sync)

	sess.SignOut()
	require.Eventually(t, func() bool {
		return pager.TotalCount() == 0 && sync.State() == task.StateUnbound
	}, 2*time.Second, 10*time.Millisecond, "sign-out clears both views")

	sess.SignIn("alice")
	require.Eventually(t, func() bool {
		return pager.TotalCount() == 1 && len(pager.Projects()) == 1
	}, 2*time.Second, 10*time.Millisecond, "sign-in reloads the project list")
}
