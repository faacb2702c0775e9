package cli

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/sprig"
	"github.com/aretw0/sprig/internal/presentation/tui"
	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/runner"
)

const reloadDebounce = 100 * time.Millisecond

// RunWatch runs the form in development mode, reloading the tree document on
// change. Answers survive a reload; those the new tree no longer reaches are dropped.
func RunWatch(ctx context.Context, opts RunOptions) error {
	logger := CreateLogger(opts.Debug)
	tui.PrintBanner(os.Stdout)

	// Default session for watch mode to keep answers across reloads.
	// We scope it by path hash to prevent collisions between projects.
	if opts.SessionID == "" {
		hash := md5.Sum([]byte(opts.Path))
		opts.SessionID = fmt.Sprintf("watch-%x", hash[:4])
	}
	if opts.Fresh {
		if err := ResetSession(ctx, opts, opts.SessionID); err != nil {
			return err
		}
	}

	engine, err := NewEngine(opts, logger)
	if err != nil {
		return err
	}
	backend, err := OpenStore(opts)
	if err != nil {
		return err
	}
	defer backend.Close()

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	changes, err := watchDocument(sigCtx, opts.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.Path, err)
	}

	state, loaded, err := hydrateState(sigCtx, engine, backend.Store, opts.SessionID)
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}
	logSessionStatus(logger, state, true, loaded, false)

	logger.Info("Starting Watcher", "path", opts.Path, "session_id", opts.SessionID)
	printSystemMessage("Watching '%s'.", filepath.Base(opts.Path))

	// Reuse the same IO handler to avoid multiple Stdin pumps (ghost readers)
	handler := newIOHandler(opts, true)
	r := runner.NewRunner(createRunnerOptions(logger, opts, backend.Store, handler)...)

	for {
		next, again := runWatchIteration(sigCtx, r, engine, state, changes, logger)
		if next != nil {
			state = next
		}
		if !again {
			break
		}
		logger.Info("Watcher restarting")
	}

	var endErr error
	if sigCtx.Err() != nil {
		endErr = context.Canceled
	}
	logCompletion(state, true, endErr, false, sigCtx.Signal())
	return nil
}

// runWatchIteration runs the form until it ends or the document changes.
// It reports whether the watcher should run another iteration.
func runWatchIteration(sigCtx *SignalContext, r *runner.Runner, engine *sprig.Engine, state *domain.State, changes <-chan struct{}, logger *slog.Logger) (*domain.State, bool) {
	runCtx, runCancel := context.WithCancel(sigCtx)
	defer runCancel()

	type result struct {
		state *domain.State
		err   error
	}
	doneCh := make(chan result, 1)
	go func() {
		s, err := r.Run(runCtx, engine, state)
		doneCh <- result{s, err}
	}()

	select {
	case <-sigCtx.Done():
		runCancel()
		res := <-doneCh
		return res.state, false

	case <-changes:
		runCancel()
		res := <-doneCh
		reload(sigCtx, engine, logger)
		return res.state, true

	case res := <-doneCh:
		if res.err != nil {
			if sigCtx.Err() != nil {
				return res.state, false
			}
			if !errors.Is(res.err, runner.ErrInterrupted) {
				logger.Error("Runtime error", "err", res.err)
			}
		}

		// quit on an unfinished form leaves the watcher too
		missing, err := engine.Missing(sigCtx, res.state)
		if err != nil || len(missing) > 0 {
			return res.state, false
		}

		printSystemMessage("Form complete. Waiting for changes...")
		logger.Info("Form finished, waiting for changes")
		select {
		case <-sigCtx.Done():
			return res.state, false
		case <-changes:
			reload(sigCtx, engine, logger)
			return res.state, true
		}
	}
}

func reload(ctx context.Context, engine *sprig.Engine, logger *slog.Logger) {
	if err := engine.Reload(ctx); err != nil {
		logger.Error("Reload failed", "err", err)
		printSystemMessage("Reload failed, keeping the previous tree: %v", err)
		return
	}
	printSystemMessage("Tree reloaded (%d nodes).", engine.Inspect().Len())
}

// watchDocument signals on the returned channel whenever path is written,
// created or renamed into place. Bursts are coalesced.
func watchDocument(ctx context.Context, path string, logger *slog.Logger) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	target := filepath.Clean(path)
	out := make(chan struct{}, 1)
	fire := func() {
		select {
		case out <- struct{}{}:
		default:
		}
	}

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				logger.Debug("Change detected", "event", event.String())
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, fire)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error", "err", err)
			}
		}
	}()

	return out, nil
}
