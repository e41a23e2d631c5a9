package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rfconstrucoes/obra/internal/auth"
	"github.com/rfconstrucoes/obra/internal/config"
	"github.com/rfconstrucoes/obra/internal/store"
)

var (
	adminEmail    string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the back-office account",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the admin credential",
	Long:  "Creates the single back-office account used to sign in to the admin area.",
	RunE:  runAdminCreate,
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Admin login email (required)")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (required)")
	adminCreateCmd.MarkFlagRequired("email")
	adminCreateCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(adminCreateCmd)
}

func runAdminCreate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := auth.ValidatePassword(adminPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	admin, err := db.CreateAdmin(context.Background(), adminEmail, hash)
	if err != nil {
		return err
	}

	fmt.Printf("admin account created: %s\n", admin.Email)
	return nil
}
