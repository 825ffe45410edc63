package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/config"
	"github.com/BuzzLyutic/taskboard/internal/identity"
	"github.com/BuzzLyutic/taskboard/internal/logger"
	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/repo"
	"github.com/BuzzLyutic/taskboard/internal/service"
	"github.com/BuzzLyutic/taskboard/internal/store"
)

var Version = "dev"

var errNotSignedIn = errors.New("not signed in, run `taskboard login` first")

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds everything one command invocation works with.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    store.Store
	adapter  *store.Adapter
	repo     *repo.TaskRepo
	tasks    *service.TaskService
	theme    *service.ThemeService
	identity *identity.Provider
}

// newRootCmd wires the subcommands to a. The caller closes a once the
// command has run.
func newRootCmd(a *app) *cobra.Command {
	var (
		configPath string
		ephemeral  bool
	)

	root := &cobra.Command{
		Use:           "taskboard",
		Short:         "Personal task board with status columns",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if ephemeral {
				cfg.Store.Driver = "memory"
			}
			return a.open(cmd.Context(), cfg)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml)")
	root.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep everything in memory")

	root.AddCommand(
		serveCmd(a),
		registerCmd(a),
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		addCmd(a),
		listCmd(a),
		editCmd(a),
		moveCmd(a),
		rmCmd(a),
		exportCmd(a),
		importCmd(a),
		themeCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(logger.Config{
		Environment: cfg.Log.Environment,
		Level:       cfg.Log.Level,
		Filename:    cfg.Log.Filename,
		MaxSize:     cfg.Log.MaxSize,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAge:      cfg.Log.MaxAge,
		Compress:    cfg.Log.Compress,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	s, err := store.Open(ctx, store.Config{
		Driver:      cfg.Store.Driver,
		Path:        cfg.Store.Path,
		DatabaseURL: cfg.Store.DatabaseURL,
		RedisAddr:   cfg.Store.RedisAddr,
		RedisPrefix: cfg.Store.RedisPrefix,
	})
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	log.Debug("store opened", zap.String("driver", cfg.Store.Driver))

	a.cfg = cfg
	a.logger = log
	a.store = s
	a.adapter = store.NewAdapter(s, log.Named("store"))
	a.repo = repo.NewTaskRepo(ctx, a.adapter, log.Named("repo"))
	a.tasks = service.NewTaskService(a.repo, log.Named("service"))
	a.theme = service.NewThemeService(a.adapter)
	a.identity = identity.NewProvider(a.adapter, identity.Config{
		Secret:     cfg.Auth.Secret,
		TokenTTL:   cfg.Auth.TokenTTL,
		Issuer:     cfg.Auth.Issuer,
		BcryptCost: cfg.Auth.BcryptCost,
		Latency:    cfg.Auth.Latency,
	}, log.Named("identity"))
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	_ = a.logger.Sync()
	err := a.store.Close()
	a.store = nil
	return err
}

func (a *app) session(ctx context.Context) (model.Session, error) {
	s, ok := a.identity.Current(ctx)
	if !ok {
		return model.Session{}, errNotSignedIn
	}
	return s, nil
}
