package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clearspend-dev/clearspend/internal/config"
	"github.com/clearspend-dev/clearspend/internal/importer"
	"github.com/clearspend-dev/clearspend/internal/log"
	"github.com/clearspend-dev/clearspend/internal/reclass"
	"github.com/clearspend-dev/clearspend/internal/session"
)

// openSession loads the config, opens the override store, and reloads the
// session from the import directory. The returned cleanup closes the store.
func openSession(cmd *cobra.Command) (*session.Session, func(), error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	importDir, _ := cmd.Flags().GetString("import-dir")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := reclass.NewSQLiteStore(cfg.Store.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening override store: %w", err)
	}

	logger := log.New(log.ParseLevel(cfg.LogLevel), log.ComponentCLI)
	sess := session.New(cfg, store, logger,
		session.WithAuditLog(cfg.Store.AuditLogPath))

	files, err := importer.Scan(importDir)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("scanning %s: %w", importDir, err)
	}

	if err := sess.Reload(cmd.Context(), session.FromScan(files)); err != nil {
		store.Close()
		return nil, nil, err
	}

	cleanup := func() { store.Close() }
	return sess, cleanup, nil
}

// currentMonth resolves the --month flag, defaulting to the newest month in
// the session.
func currentMonth(cmd *cobra.Command, sess *session.Session) (string, error) {
	month, _ := cmd.Flags().GetString("month")
	if month != "" {
		return month, nil
	}
	months := sess.Months()
	if len(months) == 0 {
		return "", fmt.Errorf("no dated transactions loaded")
	}
	return months[0], nil
}
