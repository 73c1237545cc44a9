package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"drink-reminder/internal/adapter/secondary/audio"
	"drink-reminder/internal/adapter/secondary/notify"
	"drink-reminder/internal/adapter/secondary/repository"
	"drink-reminder/internal/adapter/secondary/schedule"
	"drink-reminder/internal/config"
	"drink-reminder/internal/domain"
	"drink-reminder/internal/logging"
	"drink-reminder/internal/metrics"
	"drink-reminder/internal/usecase"
)

// loadConfig reads env/.env and applies the persistent flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if storeKind != "" {
		cfg.Store = storeKind
	}
	cfg, err = config.Normalize(cfg)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.LogLevel != "" && verbosity == 0 {
		_, count, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return config.Config{}, err
		}
		logging.SetVerbosity(count)
	}
	return cfg, nil
}

// kvStore is a key-value backend plus its release hook.
type kvStore struct {
	domain.KeyValueStore
	close func() error
}

func openStore(cfg config.Config) (*kvStore, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		kv, err := repository.OpenSQLiteKV(cfg.SettingsPath())
		if err != nil {
			return nil, err
		}
		logging.Logger().Debug("settings store opened", "store", cfg.Store, logging.Path(kv.Path()))
		return &kvStore{KeyValueStore: kv, close: kv.Close}, nil
	default:
		kv, err := repository.NewFileKV(afero.NewOsFs(), cfg.SettingsPath())
		if err != nil {
			return nil, err
		}
		logging.Logger().Debug("settings store opened", "store", cfg.Store, logging.Path(kv.Path()))
		return &kvStore{KeyValueStore: kv, close: func() error { return nil }}, nil
	}
}

func repositoryFor(store *kvStore) *repository.SettingsRepository {
	return repository.NewSettingsRepository(store)
}

func notifyPermissions(store *kvStore, cfg config.Config) *notify.PermissionStore {
	return notify.NewPermissionStore(store, newPrompter(cfg))
}

func newPrompter(cfg config.Config) notify.Prompter {
	switch cfg.Permission {
	case config.PermissionGranted:
		return notify.StaticPrompter{Answer: domain.PermissionGranted}
	case config.PermissionDenied:
		return notify.StaticPrompter{Answer: domain.PermissionDenied}
	}
	if notify.Interactive() {
		return notify.NewTerminalPrompter()
	}
	logging.Debugf("stdin is not a terminal; notification permission defaults to denied")
	return notify.StaticPrompter{Answer: domain.PermissionDenied}
}

// app bundles the adapters behind one reminder controller.
type app struct {
	cfg         config.Config
	store       *kvStore
	settings    *repository.SettingsRepository
	permissions *notify.PermissionStore
	scheduler   *schedule.GocronScheduler
	metrics     *metrics.Recorder
	uc          usecase.ReminderUseCase
}

// newApp wires the controller. alerter may be nil for the terminal alerter.
func newApp(cfg config.Config, alerter domain.Alerter) (*app, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:         cfg,
		store:       store,
		settings:    repositoryFor(store),
		permissions: notifyPermissions(store, cfg),
		metrics:     metrics.NewRecorder(nil),
	}

	a.scheduler, err = schedule.NewGocronScheduler()
	if err != nil {
		_ = store.close()
		return nil, err
	}

	if alerter == nil {
		var in *os.File
		if cfg.AckAlerts {
			in = os.Stdin
		}
		alerter = newTerminalAlerter(in)
	}

	notification := domain.DefaultNotification()
	notification.Icon = cfg.Icon

	a.uc, err = usecase.NewReminderUseCase(
		a.settings,
		a.scheduler,
		notify.NewDesktopNotifier(a.permissions),
		alerter,
		usecase.Options{
			Unit:         cfg.Unit,
			Notification: notification,
			Sound:        audio.NewCommandPlayer(cfg.SoundFile),
			Recorder:     a.metrics,
		},
	)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func newTerminalAlerter(in *os.File) domain.Alerter {
	if in == nil {
		return notify.NewTerminalAlerter(os.Stderr, nil)
	}
	return notify.NewTerminalAlerter(os.Stderr, in)
}

// resume restores the previous session. Permission and environment problems
// are reported but do not abort the command.
func (a *app) resume(ctx context.Context) error {
	err := a.uc.Resume(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrPermissionDenied), errors.Is(err, domain.ErrUnsupportedEnvironment):
		fmt.Fprintln(os.Stderr, a.uc.Snapshot().Status.Message)
	default:
		return err
	}
	if msg := a.uc.Snapshot().Status.Message; msg != "" && err == nil {
		fmt.Println(msg)
	}
	return nil
}

// Close stops the trigger and releases the store. Persisted state is kept.
func (a *app) Close() error {
	var errs []error
	if a.uc != nil {
		errs = append(errs, a.uc.Close())
	}
	if a.scheduler != nil {
		errs = append(errs, a.scheduler.Shutdown())
	}
	errs = append(errs, a.store.close())
	return errors.Join(errs...)
}
