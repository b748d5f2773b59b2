package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/VrindaSoni2/hire.ai/internal/auth/jwt"
	"github.com/VrindaSoni2/hire.ai/internal/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the API",
	Long:  "Signs a service token with JWT_SECRET. The API only checks tokens when JWT_SECRET is set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		clientID, _ := cmd.Flags().GetString("client-id")
		scopes, _ := cmd.Flags().GetStringSlice("scope")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		issuer, _ := cmd.Flags().GetString("issuer")

		var sec config.Security
		if err := config.LoadInto(&sec); err != nil {
			return err
		}
		if sec.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}
		if ttl <= 0 {
			ttl = sec.TokenTTL
		}

		client := jwt.Client{Name: name, Scopes: scopes}
		if clientID != "" {
			id, err := uuid.Parse(clientID)
			if err != nil {
				return fmt.Errorf("invalid --client-id: %w", err)
			}
			client.ID = id
		}

		token, err := jwt.NewManager(jwt.TokenConfig{
			Secret: []byte(sec.JWTSecret),
			TTL:    ttl,
			Issuer: issuer,
		}).Issue(client)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	f := tokenCmd.Flags()
	f.String("name", "hirectl", "Client name recorded in the token")
	f.String("client-id", "", "Client UUID (random when empty)")
	f.StringSlice("scope", []string{jwt.ScopeGenerate, jwt.ScopeRoleSkills}, "Scopes granted to the token")
	f.Duration("ttl", 0, "Token lifetime (defaults to JWT_TOKEN_TTL)")
	f.String("issuer", "hire-ai", "Issuer; must match APP_NAME of the API")
}
