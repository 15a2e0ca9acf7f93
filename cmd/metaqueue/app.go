package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/metaqueue/pkg/imagemeta"
	"github.com/dmitrymomot/metaqueue/pkg/logger"
	"github.com/dmitrymomot/metaqueue/pkg/preview"
	"github.com/dmitrymomot/metaqueue/pkg/queue"
	"github.com/dmitrymomot/metaqueue/pkg/quota"
	"github.com/dmitrymomot/metaqueue/pkg/redis"
)

// app owns the wired queue and everything it needs to shut down.
type app struct {
	manager *queue.Manager
	budget  *quota.DailyBudget
	logger  *slog.Logger
	closers []func() error
}

func newApp(ctx context.Context, cfg appConfig, log *slog.Logger) (*app, error) {
	a := &app{logger: log}

	store, err := a.quotaStore(ctx, cfg)
	if err != nil {
		return nil, a.fail(err)
	}

	a.budget, err = quota.NewDailyBudget(store, cfg.Quota)
	if err != nil {
		return nil, a.fail(fmt.Errorf("build quota: %w", err))
	}

	backend, err := preview.NewBackend(ctx, cfg.Preview)
	if err != nil {
		return nil, a.fail(fmt.Errorf("build preview backend: %w", err))
	}
	previews := preview.NewManager(backend, preview.WithLogger(log.With(logger.Component("preview"))))

	extractor := imagemeta.New(
		imagemeta.WithTimeout(cfg.ExtractTimeout),
		imagemeta.WithMaxBytes(cfg.MaxFileBytes),
	)

	a.manager, err = queue.New(extractor,
		queue.WithConfig(cfg.Queue),
		queue.WithQuota(a.budget),
		queue.WithPreviews(previews),
		queue.WithLogger(log),
	)
	if err != nil {
		return nil, a.fail(fmt.Errorf("build queue: %w", err))
	}

	log.Debug("application wired",
		slog.String("quota_store", cfg.QuotaStore),
		slog.String("preview_driver", cfg.Preview.Driver),
	)
	return a, nil
}

func (a *app) quotaStore(ctx context.Context, cfg appConfig) (quota.Store, error) {
	if cfg.QuotaStore == quotaStoreRedis {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect quota store: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return quota.NewRedisStore(client), nil
	}

	store := quota.NewMemoryStore()
	a.closers = append(a.closers, func() error {
		store.Close()
		return nil
	})
	return store, nil
}

// fail releases whatever was built so far and returns err.
func (a *app) fail(err error) error {
	return errors.Join(err, a.closeResources())
}

// Close shuts the manager down, then the stores it depends on.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.manager != nil {
		errs = append(errs, a.manager.Close(ctx))
	}
	errs = append(errs, a.closeResources())
	return errors.Join(errs...)
}

func (a *app) closeResources() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// process pushes files through the queue in chunks of the configured
// capacity. Each chunk is drained and cleared before the next is admitted.
// Items processed before a failure are returned with the error.
func (a *app) process(ctx context.Context, files []queue.Payload, retryFailed bool, progress io.Writer) ([]queue.Item, error) {
	if progress != nil {
		stop := a.reportProgress(ctx, progress)
		defer stop()
	}

	chunk := a.manager.Config().MaxItems
	results := make([]queue.Item, 0, len(files))

	for start := 0; start < len(files); start += chunk {
		end := min(start+chunk, len(files))

		if _, err := a.manager.AddFiles(ctx, files[start:end]); err != nil {
			return results, fmt.Errorf("submit files %d-%d: %w", start+1, end, err)
		}
		a.manager.Start()
		if err := a.manager.Wait(ctx); err != nil {
			return results, err
		}

		if retryFailed && a.manager.Stats().Failed > 0 {
			n := a.manager.RetryFailed(ctx)
			a.logger.InfoContext(ctx, "retrying failed files", logger.Count(n))
			a.manager.Start()
			if err := a.manager.Wait(ctx); err != nil {
				return results, err
			}
		}

		results = append(results, a.manager.Items()...)
		a.manager.ClearAll(ctx)
	}
	return results, nil
}

// reportProgress prints a line for every settled batch until stop is called.
func (a *app) reportProgress(ctx context.Context, w io.Writer) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	sub := a.manager.Subscribe(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for snap := range sub.Messages() {
			if snap.Event != queue.EventBatchSettled {
				continue
			}
			s := snap.Stats
			fmt.Fprintf(w, "progress %3d%%  %d/%d completed, %d failed\n",
				s.Progress, s.Completed, s.Total, s.Failed)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// usage is the quota state for the queue's operation after a run.
func (a *app) usage(ctx context.Context) (quota.Usage, error) {
	return a.budget.Usage(ctx, a.manager.Config().QuotaOperation)
}
