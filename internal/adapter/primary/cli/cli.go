package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"drink-reminder/internal/adapter/primary/tui"
	"drink-reminder/internal/adapter/primary/watch"
	"drink-reminder/internal/adapter/primary/web"
	"drink-reminder/internal/domain"
	"drink-reminder/internal/logging"
)

var (
	dataDir   string
	storeKind string
	verbosity int
)

const watchDebounce = 200 * time.Millisecond

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "drink-reminder",
		Short:         "水分補給を定期的に通知するCLI/Webサーバー/TUI",
		Long:          "Scheduler + Web UI + TUI + CLIを兼ねる水分補給リマインダー",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "設定ストアのディレクトリ (既定: $DRINK_REMINDER_DATA_DIR か ~/.config/drink-reminder)")
	cmd.PersistentFlags().StringVar(&storeKind, "store", "", "設定ストアの種類 file|sqlite (既定: $DRINK_REMINDER_STORE か file)")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "ロギングを詳細化 (-v, -vv, ... 最大4回)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetVerbosity(verbosity)
	}

	cmd.AddCommand(
		newDaemonCmd(),
		newServeCmd(),
		newTUICmd(),
		newStartCmd(),
		newStopCmd(),
		newStatusCmd(),
		newRemindCmd(),
		newPermissionCmd(),
		newConfigCmd(),
		newShellCmd(),
	)

	return cmd
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// watchSettings runs the settings watcher until ctx ends. The returned
// function blocks until the watcher has exited; call it before closing the app.
func watchSettings(ctx context.Context, a *app) (wait func()) {
	w, err := watch.NewSettingsWatcher(a.cfg.SettingsPath(), a.uc, watchDebounce)
	if err != nil {
		logging.Warnf("settings watcher disabled: %v", err)
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil {
			logging.Warnf("settings watcher stopped: %v", err)
		}
	}()
	return func() { <-done }
}

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "daemon",
		Aliases: []string{"run"},
		Short:   "スケジューラのみを起動（Webサーバーなし）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signalContext()
			defer stop()

			if err := a.resume(ctx); err != nil {
				return err
			}
			wait := watchSettings(ctx, a)

			fmt.Println("Drink Reminder daemon started")
			logging.Logger().Info("daemon started", logging.Path(cfg.SettingsPath()))

			<-ctx.Done()
			fmt.Println("Daemon shutting down...")
			wait()
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Web UIとスケジューラを両方起動",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			a, err := newApp(cfg, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signalContext()
			defer stop()

			if err := a.resume(ctx); err != nil {
				return err
			}
			wait := watchSettings(ctx, a)

			srv := web.NewServer(a.uc, cfg.Addr, a.metrics.Handler())
			fmt.Printf("Drink Reminder UI running at http://%s\n", cfg.Addr)
			logging.Infof("Drink Reminder UI: http://%s", cfg.Addr)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			err = srv.Start()
			stop()
			wait()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7070", "HTTPサーバーのアドレス:ポート")
	return cmd
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "ターミナルUIとスケジューラを起動",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			alerter := tui.NewAlerter()
			a, err := newApp(cfg, alerter)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signalContext()
			defer stop()

			// Ask before the UI takes over the terminal.
			if a.permissions.Current() == domain.PermissionUndetermined {
				if _, err := a.permissions.Request(ctx); err != nil {
					logging.Warnf("notification permission: %v", err)
				}
			}
			if err := a.uc.Resume(ctx); err != nil {
				logging.Debugf("resume: %v", err)
			}
			wait := watchSettings(ctx, a)

			p := tea.NewProgram(tui.New(ctx, a.uc), tea.WithAltScreen(), tea.WithContext(ctx))
			alerter.Attach(p)
			_, err = p.Run()
			stop()
			wait()
			if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			return nil
		},
	}
}

func newStartCmd() *cobra.Command {
	var interval int
	cmd := &cobra.Command{
		Use:   "start",
		Short: "リマインダーを開始状態として保存（起動中のdaemonへ反映）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.close()

			svc := domain.NewReminderService()
			if !cmd.Flags().Changed("interval") {
				settings, err := repositoryFor(store).Load()
				if err != nil {
					return err
				}
				if settings.IntervalMinutes == nil {
					return fmt.Errorf("%s: --interval を指定してください", domain.MsgInvalidInterval)
				}
				interval = *settings.IntervalMinutes
			}
			rc, err := svc.Validate(interval)
			if err != nil {
				return errors.New(domain.MsgInvalidInterval)
			}
			if err := repositoryFor(store).Save(rc.IntervalMinutes, true); err != nil {
				return err
			}
			fmt.Println(svc.StartedStatus(rc).Message)
			logging.Debugf("saved running=true interval=%d to %s", rc.IntervalMinutes, cfg.SettingsPath())
			return nil
		},
	}
	cmd.Flags().IntVarP(&interval, "interval", "i", 0, "通知間隔(分)。未指定なら保存済みの値")
	return cmd
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "リマインダーを停止状態として保存（起動中のdaemonへ反映）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.close()

			if err := repositoryFor(store).ClearRunning(); err != nil {
				return err
			}
			fmt.Println(domain.MsgStopped)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "保存されている状態(JSON)を表示",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.close()

			settings, err := repositoryFor(store).Load()
			if err != nil {
				return err
			}
			state := domain.StateStopped
			if settings.IsRunning() {
				state = domain.StateRunning
			}
			display := map[string]interface{}{
				"state":   state.String(),
				"running": settings.IsRunning(),
				"store":   cfg.Store,
				"path":    cfg.SettingsPath(),
			}
			if settings.IntervalMinutes != nil {
				display["intervalMinutes"] = *settings.IntervalMinutes
			}
			if perm, ok, err := store.Get(domain.KeyPermission); err == nil && ok {
				display["notificationPermission"] = domain.ParsePermission(perm).String()
			}

			out, _ := json.MarshalIndent(display, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	}
}

func newRemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "今すぐリマインダーを1回通知",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signalContext()
			defer stop()

			if err := a.uc.RemindNow(ctx); err != nil {
				// The fallback alert has already been shown.
				logging.Warnf("reminder degraded: %v", err)
			}
			return nil
		},
	}
}

func newPermissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "permission [show|grant|deny|reset|ask]",
		Short:     "デスクトップ通知の許可状態を表示・変更",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"show", "grant", "deny", "reset", "ask"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.close()

			perms := notifyPermissions(store, cfg)
			action := "show"
			if len(args) == 1 {
				action = args[0]
			}
			switch action {
			case "show":
			case "grant":
				err = perms.Set(domain.PermissionGranted)
			case "deny":
				err = perms.Set(domain.PermissionDenied)
			case "reset":
				err = perms.Set(domain.PermissionUndetermined)
			case "ask":
				_, err = perms.Request(cmd.Context())
			default:
				return fmt.Errorf("不明な操作: %s", action)
			}
			if err != nil {
				return err
			}
			fmt.Printf("notification permission: %s\n", perms.Current())
			return nil
		},
	}
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "実行時設定の確認を行うサブコマンド",
	}
	cmd.AddCommand(newConfigGetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "現在の実行時設定(JSON)を表示",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			display := map[string]interface{}{
				"dataDir":          cfg.DataDir,
				"store":            cfg.Store,
				"settingsPath":     cfg.SettingsPath(),
				"addr":             cfg.Addr,
				"unit":             cfg.Unit.String(),
				"notifyPermission": cfg.Permission,
				"ackAlerts":        cfg.AckAlerts,
				"logLevel":         logging.LevelName(),
			}
			if cfg.SoundFile != "" {
				display["soundFile"] = cfg.SoundFile
			}
			if cfg.Icon != "" {
				display["icon"] = cfg.Icon
			}

			out, _ := json.MarshalIndent(display, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	}
}
