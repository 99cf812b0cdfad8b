package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/web3-jobboard/internal/config"
	"github.com/jonathan/web3-jobboard/internal/server"
)

func newTokenCmd() *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed access token for local development",
		Long:  "Signs a token with JWT_SECRET for the given user id, or a random one. Use it as 'Authorization: Bearer <token>' against the authenticated endpoints.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID := uuid.New()
			if userFlag != "" {
				parsed, err := uuid.Parse(userFlag)
				if err != nil {
					return fmt.Errorf("invalid --user %q: %w", userFlag, err)
				}
				userID = parsed
			}

			jwtCfg, err := config.NewJWTConfig()
			if err != nil {
				return err
			}
			token, err := server.NewJWTService(jwtCfg).GenerateToken(userID)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "user %s, expires in %s\n", userID, jwtCfg.TTL())
			return nil
		},
	}
	cmd.Flags().StringVar(&userFlag, "user", "", "User id (UUID); random when omitted")
	return cmd
}
