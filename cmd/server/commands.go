package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/palace-api/internal/platform/postgres"
	"github.com/phrazzld/palace-api/internal/seed"
	"github.com/spf13/cobra"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadAppConfig(*configPath)
			if err != nil {
				return err
			}
			db, err := setupAppDatabase(cmd.Context(), cfg, l)
			if err != nil {
				return err
			}
			app, err := newApplication(cfg, l, db)
			if err != nil {
				_ = db.Close()
				return err
			}
			defer app.cleanup()
			return app.Run(cmd.Context())
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <" + strings.Join(postgres.MigrationCommands, "|") + "> [args...]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadAppConfig(*configPath)
			if err != nil {
				return err
			}
			db, err := setupAppDatabase(cmd.Context(), cfg, l)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.RunMigrations(cmd.Context(), db, args[0], l, args[1:]...)
		},
	}
}

func seedCmd(configPath *string) *cobra.Command {
	var email, templatePath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a starter palace with flashcards for a registered user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return fmt.Errorf("--email is required")
			}
			tpl, err := seed.Load(templatePath)
			if err != nil {
				return err
			}

			cfg, l, err := loadAppConfig(*configPath)
			if err != nil {
				return err
			}
			db, err := setupAppDatabase(cmd.Context(), cfg, l)
			if err != nil {
				return err
			}
			app, err := newApplication(cfg, l, db)
			if err != nil {
				_ = db.Close()
				return err
			}
			defer app.cleanup()

			seeder := seed.NewSeeder(app.userService, app.palaceService, app.flashcardService, l)
			report, err := seeder.Apply(cmd.Context(), email, tpl)
			if err != nil {
				return err
			}
			l.Info("seed completed",
				slog.String("palace", tpl.Name),
				slog.Int64("palace_id", report.PalaceID),
				slog.Int("flashcards", report.FlashcardsCreated))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email of the user receiving the palace")
	cmd.Flags().StringVar(&templatePath, "template", "", "Path to a palace template (defaults to the built-in starter palace)")
	return cmd
}
