package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ydbwellness/ydb/auth"
	"github.com/ydbwellness/ydb/docstore"
)

var (
	userEmail    string
	userPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage sign-in accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account",
	Long:  "Creates an account. Make the admin email from the config an account to give it the admin panel.",
	RunE:  runUserAdd,
}

func init() {
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "account email")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "account password (min 6 characters)")
	_ = userAddCmd.MarkFlagRequired("email")
	_ = userAddCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userAddCmd)
}

func runUserAdd(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()
	if cfg.TokenSecret == "" {
		return errors.New("token secret is not configured")
	}

	store, err := docstore.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	local := auth.NewLocal(store, cfg.TokenSecret, 0, log)
	u, err := local.SignUp(cmd.Context(), userEmail, userPassword)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", u.Email, u.UID)
	return nil
}
