package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tripwise/flight-planner/internal/config"
	"github.com/tripwise/flight-planner/internal/utils"
	"github.com/tripwise/flight-planner/pkg/jwt"
)

var (
	tokenUser   string
	tokenRoles  []string
	tokenExpiry time.Duration
	secretBytes int
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for local development",
	RunE:  runToken,
}

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a value for JWT_SECRET",
	RunE:  runSecret,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "User ID (random when empty)")
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "role", nil, "Role to grant (repeatable)")
	tokenCmd.Flags().DurationVar(&tokenExpiry, "expiry", 0, "Token lifetime (defaults to JWT_ACCESS_TOKEN_EXPIRY)")

	secretCmd.Flags().IntVar(&secretBytes, "bytes", 32, "Secret length in bytes")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	userID := uuid.New()
	if tokenUser != "" {
		if userID, err = uuid.Parse(tokenUser); err != nil {
			return fmt.Errorf("invalid user ID: %w", err)
		}
	}

	expiry := cfg.JWT.AccessTokenExpiry
	if tokenExpiry > 0 {
		expiry = tokenExpiry
	}

	token, err := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, expiry).GenerateAccessToken(userID, tokenRoles)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(cmd.ErrOrStderr(), "user %s, roles %v, expires in %v\n", userID, tokenRoles, expiry)
	fmt.Fprintln(out, token)
	return nil
}

func runSecret(cmd *cobra.Command, args []string) error {
	if secretBytes < 32 {
		return fmt.Errorf("secrets shorter than 32 bytes are not accepted")
	}

	secret, err := utils.GenerateSecret(secretBytes)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "JWT_SECRET=%s\n", secret)
	return nil
}
