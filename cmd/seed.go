/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csemotors/dealer/config"
	"github.com/csemotors/dealer/internal/auth"
	"github.com/csemotors/dealer/internal/db"
	"github.com/csemotors/dealer/internal/logger"
	"github.com/csemotors/dealer/internal/services"
	"github.com/csemotors/dealer/internal/store"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create or refresh the default client, employee and admin accounts",
	Long: `Ensures the default accounts exist. Missing accounts are created with the
SEED_*_PASSWORD passwords. Existing accounts get their name and role refreshed
and keep their password.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log := logger.New(cfg.Log)
		defer func() {
			_ = log.Sync()
		}()

		conn, err := db.Open(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer conn.Close()

		accounts := services.NewAccountService(
			store.NewAccountRepository(conn),
			auth.NewPasswordHasher(cfg.Auth.BcryptCost),
			nil,
			nil,
		)
		seeded, err := accounts.EnsureDefaultAccounts(cmd.Context(), services.DefaultAccounts(cfg.Seed))
		if err != nil {
			return fmt.Errorf("seed accounts: %w", err)
		}
		for _, account := range seeded {
			log.Info("account ready",
				zap.Int("account_id", account.ID),
				zap.String("email", account.Email),
				zap.String("role", account.Role.String()),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
