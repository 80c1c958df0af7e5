package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"propmgmt-backend/internal/auth"
	"propmgmt-backend/internal/config"
	"propmgmt-backend/internal/database"
	"propmgmt-backend/internal/logger"
	"propmgmt-backend/internal/models"
	"propmgmt-backend/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "propmgmt",
		Short:         "Property management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.AddCommand(serveCmd(), migrateCmd(), createUserCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration, the logger and the database.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.Init(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("configuration loaded", cfg.Fields()...)

	if err := database.Init(cfg, log); err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	app := server.New(cfg)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.HTTPPort))
		errCh <- app.Listen(":" + cfg.HTTPPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			fmt.Println("Schema is up to date.")
			return nil
		},
	}
}

func createUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user, and its hub when the hub does not exist yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			password, _ := cmd.Flags().GetString("password")
			hubName, _ := cmd.Flags().GetString("hub")
			role, _ := cmd.Flags().GetString("role")

			email = strings.TrimSpace(strings.ToLower(email))
			if email == "" || password == "" || name == "" || hubName == "" {
				return errors.New("email, name, password and hub are required")
			}
			userRole := models.UserRole(role)
			if userRole != models.RoleAdmin && userRole != models.RoleStaff {
				return fmt.Errorf("unknown role %q", role)
			}

			_, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			user, err := createUser(database.DB, hubName, name, email, password, userRole)
			if err != nil {
				return err
			}
			fmt.Printf("Created user %s (%s) in hub %s\n", user.Email, user.Role, hubName)
			return nil
		},
	}

	cmd.Flags().String("email", "", "login email")
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("password", "", "login password")
	cmd.Flags().String("hub", "", "hub name, created when missing")
	cmd.Flags().String("role", string(models.RoleAdmin), "admin or staff")
	return cmd
}

func createUser(db *gorm.DB, hubName, name, email, password string, role models.UserRole) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *models.User
	err = db.Transaction(func(tx *gorm.DB) error {
		hub := models.Hub{Name: hubName}
		if err := tx.Where(models.Hub{Name: hubName}).FirstOrCreate(&hub).Error; err != nil {
			return fmt.Errorf("find or create hub: %w", err)
		}

		user = &models.User{
			HubID:        hub.ID,
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	return user, err
}
