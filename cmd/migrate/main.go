package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"regtrack/internal/config"
	"regtrack/internal/domain"
	"regtrack/internal/logger"
	"regtrack/internal/repository/postgres"
	"regtrack/internal/service"
)

var (
	cfg *config.Config
	log *zap.Logger

	migrationsPath string

	bootstrapCompany  string
	bootstrapSlug     string
	bootstrapEmail    string
	bootstrapPassword string
	bootstrapName     string
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the RegTrack database schema",
	Long: `Applies, reverts and inspects the PostgreSQL schema migrations under db/migrations.
Connection settings come from the REGTRACK_DB_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log, err = logger.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration up failed: %w", err)
			}
			log.Info("migrations applied successfully")
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration down failed: %w", err)
			}
			log.Info("migrations reverted successfully")
			return nil
		})
	},
}

var stepsCmd = &cobra.Command{
	Use:   "steps N",
	Short: "Apply N migrations (negative N reverts)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid steps argument: %w", err)
		}
		return withMigrator(func(m *migrate.Migrate) error {
			if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration steps failed: %w", err)
			}
			log.Info("applied migration steps", zap.Int("steps", n))
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "version: none")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %v\n", version, dirty)
			return nil
		})
	},
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the first company and its admin user",
	Long: `Creates a company and an admin account so the API can be used.
The admin is a platform admin: company administration endpoints accept
only platform admins, so a fresh database needs one created out of band.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		companySvc := service.NewCompanyService(postgres.NewCompanyRepo(db))
		userSvc := service.NewUserService(postgres.NewUserRepo(db))

		company, err := companySvc.Create(ctx, service.CreateCompanyInput{
			Name: bootstrapCompany,
			Slug: bootstrapSlug,
		})
		if err != nil {
			return fmt.Errorf("creating company: %w", err)
		}

		user, err := userSvc.Create(ctx, company.ID, service.CreateUserInput{
			Email:         bootstrapEmail,
			Password:      bootstrapPassword,
			FullName:      bootstrapName,
			Role:          domain.RoleAdmin,
			PlatformAdmin: true,
		})
		if err != nil {
			return fmt.Errorf("creating admin user: %w", err)
		}

		log.Info("bootstrap complete",
			zap.String("company_id", company.ID.String()),
			zap.String("slug", company.Slug),
			zap.String("user_id", user.ID.String()),
		)
		return nil
	},
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	m, err := migrate.New("file://"+migrationsPath, cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warn("closing migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()
	return fn(m)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "db/migrations", "directory holding the migration files")

	bootstrapCmd.Flags().StringVar(&bootstrapCompany, "company", "", "company display name")
	bootstrapCmd.Flags().StringVar(&bootstrapSlug, "slug", "", "company slug used at login")
	bootstrapCmd.Flags().StringVar(&bootstrapEmail, "email", "", "admin email")
	bootstrapCmd.Flags().StringVar(&bootstrapPassword, "password", "", "admin password (min 8 characters)")
	bootstrapCmd.Flags().StringVar(&bootstrapName, "name", "Administrator", "admin full name")
	for _, f := range []string{"company", "slug", "email", "password"} {
		_ = bootstrapCmd.MarkFlagRequired(f)
	}

	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, versionCmd, bootstrapCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
