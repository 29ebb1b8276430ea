package wire

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/ideaval/internal/apiclient"
	"github.com/mithrel/ideaval/internal/config"
	"github.com/mithrel/ideaval/internal/db"
	"github.com/mithrel/ideaval/internal/logging"
	"github.com/mithrel/ideaval/internal/session"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg     *viper.Viper
	Log     *zap.Logger
	Store   *db.Store
	Client  *apiclient.Client
	Session *session.Store

	closer io.Closer
}

type buildOptions struct {
	stderr bool
}

type Option func(*buildOptions)

// WithStderrLog mirrors the log to stderr, for commands that do not own
// the terminal.
func WithStderrLog() Option { return func(o *buildOptions) { o.stderr = true } }

// BuildApp wires dependencies with the provided config and restores the
// persisted session.
func BuildApp(ctx context.Context, v *viper.Viper, opts ...Option) (*App, error) {
	var bo buildOptions
	for _, o := range opts {
		o(&bo)
	}
	if err := config.CheckConfigValidity(v); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  v.GetString("log.level"),
		File:   v.GetString("log.file"),
		Stderr: bo.stderr,
	})
	if err != nil {
		return nil, err
	}

	store, closer, err := db.Open(ctx, db.DSNForDir(v.GetString("data_dir")))
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	client := apiclient.New(v.GetString("api.base_url"),
		apiclient.WithLogger(logger.Named("api")),
		apiclient.WithTimeout(v.GetDuration("api.timeout")))

	sopts := []session.Option{session.WithLogger(logger.Named("session")), session.WithTx(store.Tx)}
	if v.GetBool("history.enabled") {
		sopts = append(sopts, session.WithHistory(store.Reports))
	}
	sess := session.New(store.KV, client, sopts...)
	if err := sess.Restore(ctx); err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &App{
		Cfg:     v,
		Log:     logger,
		Store:   store,
		Client:  client,
		Session: sess,
		closer:  closer,
	}, nil
}

// Close releases the database and flushes the log.
func (a *App) Close() error {
	var errs []error
	if a.closer != nil {
		errs = append(errs, a.closer.Close())
	}
	// Sync on stderr fails with EINVAL on most terminals
	_ = a.Log.Sync()
	return errors.Join(errs...)
}
