package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yangpin97/cisco-client-portal/credential"
	"github.com/yangpin97/cisco-client-portal/document"
	"github.com/yangpin97/cisco-client-portal/tool"
	"github.com/yangpin97/cisco-client-portal/types"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Reset the admin credentials",
	Long:  "Overwrite the admin username and password in the document without knowing the old password. Run it on the host while the portal is stopped or idle.",
	RunE:  runPasswd,
}

var (
	passwdUsername string
	passwdPassword string
)

func init() {
	passwdCmd.Flags().StringVar(&passwdUsername, "username", document.DefaultAdminUsername, "new admin username")
	passwdCmd.Flags().StringVar(&passwdPassword, "password", "", "new admin password")
	_ = passwdCmd.MarkFlagRequired("password")
}

func runPasswd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store := document.New(cfg.DataPath)
	if _, err := store.Update(func(doc *types.Document) error {
		return credential.Reset(doc, passwdUsername, passwdPassword)
	}); err != nil {
		return fmt.Errorf("failed to reset credentials: %w", err)
	}
	tool.DefaultLogger.Infof("Admin credentials reset for %q in %s", passwdUsername, store.Path())
	return nil
}
