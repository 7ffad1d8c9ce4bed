package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/geocoder89/workoutseed/internal/config"
	"github.com/geocoder89/workoutseed/internal/db"
	"github.com/geocoder89/workoutseed/internal/lock"
	"github.com/geocoder89/workoutseed/internal/observability"
	"github.com/geocoder89/workoutseed/internal/report"
	"github.com/geocoder89/workoutseed/internal/security"
	"github.com/geocoder89/workoutseed/internal/seed"
	"github.com/geocoder89/workoutseed/internal/store"
)

// deps are the outside-world constructors; tests swap them for in-memory fakes.
type deps struct {
	out      io.Writer
	logOut   io.Writer
	envFiles []string

	openStore  func(ctx context.Context, cfg config.Config) (store.Store, error)
	openLocker func(ctx context.Context, cfg config.Config) (lock.Locker, func() error, error)
	hasher     func(cfg config.Config) seed.Hasher
}

func defaultDeps() deps {
	return deps{
		out:       os.Stdout,
		logOut:    os.Stderr,
		openStore: db.Open,
		openLocker: func(ctx context.Context, cfg config.Config) (lock.Locker, func() error, error) {
			if cfg.RedisAddr == "" {
				return lock.Noop{}, func() error { return nil }, nil
			}
			rdb, err := lock.Connect(ctx, lock.ClientConfig{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			if err != nil {
				return nil, nil, err
			}
			return lock.AsLocker(lock.NewRedis(rdb, lock.DefaultKey, cfg.LockTTL)), rdb.Close, nil
		},
		hasher: func(cfg config.Config) seed.Hasher {
			return security.BcryptHasher{Cost: cfg.BcryptCost}
		},
	}
}

// app is everything one command invocation needs.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	store   store.Store
	orch    *seed.Orchestrator
	printer *report.Printer
	prom    *observability.Prom
	locker  lock.Locker

	closers []func() error
}

func withApp(cmd *cobra.Command, d deps, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(cmd, d.envFiles...)
	if err != nil {
		return err
	}

	a := &app{cfg: cfg}
	defer func() {
		for i := len(a.closers) - 1; i >= 0; i-- {
			if cerr := a.closers[i](); cerr != nil && a.log != nil {
				a.log.Warn("shutdown step failed", "err", cerr)
			}
		}
	}()

	shutdownTracer, err := observability.InitTracer(ctx, observability.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() error {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdownTracer(sctx)
	})

	a.log = observability.NewLogger(d.logOut, cfg.Env, cfg.OTLPEndpoint != "")
	a.log.Debug("config loaded", "driver", cfg.DBDriver, "db", cfg.Redacted(), "lang", cfg.Lang)

	a.printer, err = report.NewPrinter(d.out, cfg.Lang)
	if err != nil {
		return err
	}

	raw, err := d.openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", seed.ErrStoreUnavailable, err)
	}
	a.closers = append(a.closers, raw.Close)

	a.prom = observability.NewProm()
	a.store = store.Instrument(raw, a.prom)

	locker, closeLocker, err := d.openLocker(ctx, cfg)
	if err != nil {
		return fmt.Errorf("run lock: %w", err)
	}
	a.locker = locker
	a.closers = append(a.closers, closeLocker)

	a.orch = seed.New(a.store, d.hasher(cfg),
		seed.WithLogger(a.log),
		seed.WithRecorder(a.prom),
	)

	return fn(ctx, a)
}

// seed runs plan under the run lock, prints the report and pushes metrics.
// Item failures are reported, not returned.
func (a *app) seed(ctx context.Context, command string, plan seed.Plan) (err error) {
	held, err := a.locker.Acquire(ctx)
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			return err
		}
		return fmt.Errorf("acquire run lock: %w", err)
	}
	defer func() {
		if rerr := held.Release(context.WithoutCancel(ctx)); rerr != nil {
			a.log.Warn("releasing run lock failed", "err", rerr)
		}
	}()

	start := time.Now()
	res, err := a.orch.Run(ctx, plan)
	a.prom.ObserveRun(time.Since(start))
	if err != nil {
		return err
	}

	a.printer.Result(res)
	a.push(ctx, command)

	return nil
}

func (a *app) push(ctx context.Context, command string) {
	if a.cfg.PushgatewayURL == "" {
		return
	}
	if err := a.prom.Push(ctx, a.cfg.PushgatewayURL, command); err != nil {
		a.log.Warn("pushing metrics failed", "url", a.cfg.PushgatewayURL, "err", err)
	}
}

func (a *app) adminInput() seed.UserInput {
	return seed.UserInput{
		Email:    a.cfg.AdminEmail,
		Username: a.cfg.AdminUsername,
		Password: a.cfg.AdminPassword,
		FullName: a.cfg.AdminName,
		Admin:    true,
	}
}
