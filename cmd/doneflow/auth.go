package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/doneflow/doneflow/pkg/auth"
)

var (
	authEmail    string
	authPassword string
	authName     string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the local session",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist a session",
	Run: func(cmd *cobra.Command, args []string) {
		manager := newAuthManager()
		session, err := manager.Login(authEmail, authPassword)
		if err != nil {
			fatal("Login failed", err)
		}
		fmt.Printf("Logged in as %s (%s)\n", session.DisplayName, session.UID)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and profile",
	Run: func(cmd *cobra.Command, args []string) {
		if authName == "" {
			fmt.Println("Error: --name is required")
			cmd.Usage()
			os.Exit(1)
		}
		manager := newAuthManager()
		session, err := manager.Signup(authEmail, authPassword, authName)
		if err != nil {
			fatal("Signup failed", err)
		}
		fmt.Printf("Account created: %s (%s)\n", session.DisplayName, session.UID)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the active session",
	Run: func(cmd *cobra.Command, args []string) {
		if err := newAuthManager().Logout(); err != nil {
			fatal("Logout failed", err)
		}
		fmt.Println("Logged out.")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the active session",
	Run: func(cmd *cobra.Command, args []string) {
		session, ok := newAuthManager().Current()
		if !ok {
			fmt.Println("Not logged in.")
			return
		}
		fmt.Printf("%s <%s> (%s)\n", session.DisplayName, session.Email, session.UID)
	},
}

func newAuthManager() *auth.Manager {
	cfg, err := loadConfig()
	if err != nil {
		fatal("Failed to load config", err)
	}
	store, err := openStore(cfg)
	if err != nil {
		fatal("Failed to open store", err)
	}
	return auth.NewManager(store, slog.Default())
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)

	for _, cmd := range []*cobra.Command{loginCmd, signupCmd} {
		cmd.Flags().StringVar(&authEmail, "email", "", "Email address")
		cmd.Flags().StringVar(&authPassword, "password", "", "Password")
		cmd.MarkFlagRequired("email")
	}
	signupCmd.Flags().StringVar(&authName, "name", "", "Display name")
}
