package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/web3-jobboard/internal/ingestion"
)

func newProfileCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage stored user profiles",
	}

	var setUser, setFile string
	set := &cobra.Command{
		Use:   "set",
		Short: "Store the preference fields of a profile from a JSON file",
		Long:  "Creates or replaces a user's skills, preferred roles and locations, salary range and experience. Interaction history in the file is ignored; it is only appended through the API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuid.Parse(setUser)
			if err != nil {
				return fmt.Errorf("invalid --user %q: %w", setUser, err)
			}
			profile, err := ingestion.LoadProfile(setFile)
			if err != nil {
				return fmt.Errorf("failed to load profile %s: %w", setFile, err)
			}
			profile.UserID = userID

			_, database, err := openDB(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.UpsertUserProfile(cmd.Context(), profile); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored profile for %s\n", userID)
			return nil
		},
	}
	set.Flags().StringVar(&setUser, "user", "", "User id (UUID, required)")
	set.Flags().StringVarP(&setFile, "file", "f", "", "Path to a profile JSON file (required)")
	for _, name := range []string{"user", "file"} {
		if err := set.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	var showUser string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print a stored profile with its history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuid.Parse(showUser)
			if err != nil {
				return fmt.Errorf("invalid --user %q: %w", showUser, err)
			}

			_, database, err := openDB(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer database.Close()

			profile, err := database.GetUserProfile(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if profile == nil {
				return fmt.Errorf("profile not found: %s", userID)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(profile)
		},
	}
	show.Flags().StringVar(&showUser, "user", "", "User id (UUID, required)")
	if err := show.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	cmd.AddCommand(set, show)
	return cmd
}
