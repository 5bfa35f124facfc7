package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Joseda-hg/mestaches/internal/config"
	"github.com/Joseda-hg/mestaches/internal/db"
	"github.com/Joseda-hg/mestaches/internal/logging"
	"github.com/Joseda-hg/mestaches/internal/todo"
	"github.com/Joseda-hg/mestaches/internal/tui"
	"github.com/Joseda-hg/mestaches/internal/web"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type flags struct {
	configPath string
	dbPath     string
	web        bool
	webOnly    bool
	port       int
	locale     string
	logLevel   string
}

func main() {
	_ = godotenv.Load()

	var f flags
	flag.StringVar(&f.configPath, "config", "", "config file path (.json or .toml)")
	flag.StringVar(&f.dbPath, "db", "", "sqlite db path")
	flag.BoolVar(&f.web, "web", false, "enable web server")
	flag.BoolVar(&f.webOnly, "web-only", false, "run web server only")
	flag.IntVar(&f.port, "port", 0, "web server port")
	flag.StringVar(&f.locale, "locale", "", "interface language (fr, en)")
	flag.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.Parse()

	if err := run(f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfgPath, err := resolveConfigPath(f.configPath)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	applyFlags(&cfg, f)
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(cfgPath), "mestaches.db")
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	// Environment beats the file, flags beat both.
	if err := config.ApplyEnv(&cfg, os.Getenv); err != nil {
		return err
	}
	applyFlags(&cfg, f)

	logOut, closeLog, err := openLogOutput(cfg, f.webOnly)
	if err != nil {
		return err
	}
	defer closeLog()

	logger, err := logging.New(logOut, cfg.LogLevel)
	if err != nil {
		return err
	}

	store, closeDB, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDB(); err != nil {
			logger.WithError(err).Warn("close db")
		}
	}()
	store.Load(context.Background())

	if cfg.WebEnabled || f.webOnly {
		addr := fmt.Sprintf(":%d", cfg.WebPort)
		handler := web.NewServer(store, logger).Handler()
		logger.WithField("addr", addr).Infof("Web server running at http://localhost%s", addr)
		if f.webOnly {
			return http.ListenAndServe(addr, handler)
		}

		go func() {
			if err := http.ListenAndServe(addr, handler); err != nil {
				logger.WithError(err).Error("web server error")
			}
		}()
	}

	return tui.Run(store)
}

func applyFlags(cfg *config.Config, f flags) {
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}
	if f.web {
		cfg.WebEnabled = true
	}
	if f.port != 0 {
		cfg.WebPort = f.port
	}
	if cfg.WebPort == 0 {
		cfg.WebPort = 8080
	}
	if f.locale != "" {
		cfg.Locale = f.locale
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

// openLogOutput picks stdout for the headless server and a file otherwise,
// since the terminal UI owns the screen.
func openLogOutput(cfg config.Config, webOnly bool) (io.Writer, func(), error) {
	if webOnly {
		return os.Stdout, func() {}, nil
	}

	path := cfg.LogPath
	if path == "" {
		path = filepath.Join(filepath.Dir(cfg.DBPath), "mestaches.log")
	}
	file, err := logging.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { _ = file.Close() }, nil
}

// openStore opens the database behind the task list. The returned func closes
// it.
func openStore(cfg config.Config, logger logrus.FieldLogger) (*todo.Store, func() error, error) {
	if err := config.EnsureDir(cfg.DBPath); err != nil {
		return nil, nil, err
	}

	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	store := todo.NewStore(db.NewStore(sqlDB),
		todo.WithKey(cfg.StorageKey),
		todo.WithLogger(logger.WithField("component", "store")),
		todo.WithMessages(todo.MessagesFor(cfg.Locale)),
	)
	return store, sqlDB.Close, nil
}
