package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"plando/internal/config"
	"plando/internal/database"
	"plando/internal/events"
	"plando/internal/logging"
	"plando/internal/services/project"
	"plando/internal/services/task"
	"plando/internal/session"
	"plando/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(cfg.DataDir); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	ctx := context.Background()

	db, err := database.InitDB(ctx, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	// Prefer the daemon socket so changes sync across processes; fall back
	// to the in-process bus when no daemon is running.
	var pub events.Publisher
	client := events.NewClient(cfg.SocketPath())
	if err := client.Connect(ctx); err != nil {
		daemonErr := events.ClassifyDaemonError(err)
		slog.Info("daemon unavailable, using in-process events", "reason", daemonErr.Message)
		pub = events.NewLocalBus()
	} else {
		pub = client
	}
	defer pub.Close()

	sess := session.New()
	sess.SignIn(session.DefaultUserID())

	pager := project.NewPager(repo, sess, pub)
	if err := pager.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}

	synchronizer := task.NewSynchronizer(repo, sess, pub)
	defer synchronizer.Close()

	go watchSession(ctx, sess.Changes(), pager, synchronizer)

	model := tui.InitialModel(cfg, sess, pager, synchronizer)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}

// watchSession keeps the views in line with the session: sign-out clears
// them back to their empty terminal state, sign-in reloads the project list.
func watchSession(ctx context.Context, changes <-chan session.Change, pager *project.Pager, sync *task.Synchronizer) {
	for change := range changes {
		if change.UserID == "" {
			if err := sync.SetActiveProject(ctx, ""); err != nil {
				slog.Error("failed to unbind task view", "error", err)
			}
			pager.Reset()
			continue
		}
		if err := pager.Refresh(ctx); err != nil {
			slog.Error("failed to reload projects", "error", err)
		}
	}
}
