package admin

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"harvestcycle/internal/infrastructure/auth"
	"harvestcycle/internal/infrastructure/config"
	"harvestcycle/internal/infrastructure/database"
	"harvestcycle/internal/infrastructure/permission"
	"harvestcycle/internal/shared/authorization"
	"harvestcycle/internal/shared/logger"
)

var (
	env        string
	configPath string
	role       string
	ttl        time.Duration
)

// NewCommand groups operator tooling: token minting and admin grants.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator tools",
		Long:  `Mint access tokens and manage administrator grants.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newTokenCommand(),
		newGrantCommand(),
		newRevokeCommand(),
	)

	return cmd
}

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <subject-id>",
		Short: "Issue an access token",
		Args:  cobra.ExactArgs(1),
		RunE:  runToken,
	}

	cmd.Flags().StringVarP(&role, "role", "r", string(authorization.RoleSubscriber), "Role claim (subscriber or admin)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}

func newGrantCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <subject-id>",
		Short: "Grant the admin role to a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnforcer(func(e *permission.Enforcer) error {
				if err := e.AddRoleForSubject(args[0], string(authorization.RoleAdmin)); err != nil {
					return fmt.Errorf("failed to grant admin role: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "granted admin to %s (running servers pick it up on restart)\n", args[0])
				return nil
			})
		},
	}
}

func newRevokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <subject-id>",
		Short: "Revoke the admin role from a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnforcer(func(e *permission.Enforcer) error {
				if err := e.DeleteRoleForSubject(args[0], string(authorization.RoleAdmin)); err != nil {
					return fmt.Errorf("failed to revoke admin role: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "revoked admin from %s (running servers pick it up on restart)\n", args[0])
				return nil
			})
		},
	}
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	parsed := authorization.UserRole(role)
	if !parsed.IsValid() {
		return fmt.Errorf("unknown role %q", role)
	}

	token, err := auth.NewJWTService(cfg.Auth.JWT.Secret, ttl).Generate(args[0], parsed)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func withEnforcer(fn func(e *permission.Enforcer) error) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	enforcer, err := permission.NewEnforcer(database.Get(), logger.NewLogger())
	if err != nil {
		return err
	}
	return fn(enforcer)
}
