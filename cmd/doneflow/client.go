package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doneflow/doneflow/pkg/agency"
)

var (
	clientID       string
	clientName     string
	clientIndustry string
	clientTone     string
	clientPillars  string
	clientJSON     bool
	clientYAML     bool
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage client accounts and their brand identity",
}

var clientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create or update a client",
	Run: func(cmd *cobra.Command, args []string) {
		service, owner := newAgencyService()

		id := clientID
		if id == "" {
			id = uuid.NewString()
		}
		client := agency.Client{
			ID:          id,
			Name:        clientName,
			Industry:    clientIndustry,
			ToneOfVoice: clientTone,
		}
		if clientPillars != "" {
			for _, p := range strings.Split(clientPillars, ",") {
				client.ContentPillars = append(client.ContentPillars, strings.TrimSpace(p))
			}
		}

		if err := service.SaveClient(context.Background(), owner, client); err != nil {
			fatal("Failed to save client", err)
		}
		fmt.Printf("Client '%s' saved (%s).\n", client.Name, client.ID)
	},
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service, owner := newAgencyService()

		clients, err := service.Clients(context.Background(), owner)
		if err != nil {
			fatal("Failed to list clients", err)
		}

		if clientJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(clients); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}
		if clientYAML {
			data, err := yaml.Marshal(clients)
			if err != nil {
				fatal("Failed to encode YAML", err)
			}
			os.Stdout.Write(data)
			return
		}

		for _, c := range clients {
			industry := ""
			if c.Industry != "" {
				industry = fmt.Sprintf("- %s", c.Industry)
			}
			fmt.Printf("%s %s %s\n", c.ID, c.Name, industry)
		}
	},
}

var clientRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a client",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, owner := newAgencyService()

		if err := service.DeleteClient(context.Background(), owner, args[0]); err != nil {
			fatal("Failed to remove client", err)
		}
		fmt.Printf("Client '%s' removed.\n", args[0])
	},
}

func newAgencyService() (*agency.Service, string) {
	cfg, err := loadConfig()
	if err != nil {
		fatal("Failed to load config", err)
	}
	store, err := openStore(cfg)
	if err != nil {
		fatal("Failed to open store", err)
	}
	return agency.NewService(store), requireOwner(store)
}

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.AddCommand(clientAddCmd, clientListCmd, clientRemoveCmd)

	clientAddCmd.Flags().StringVar(&clientID, "id", "", "Client ID (generated when empty)")
	clientAddCmd.Flags().StringVar(&clientName, "name", "", "Client name")
	clientAddCmd.Flags().StringVar(&clientIndustry, "industry", "", "Industry")
	clientAddCmd.Flags().StringVar(&clientTone, "tone", "", "Tone of voice")
	clientAddCmd.Flags().StringVar(&clientPillars, "pillars", "", "Comma-separated content pillars")
	clientAddCmd.MarkFlagRequired("name")

	clientListCmd.Flags().BoolVar(&clientJSON, "json", false, "Output in JSON format")
	clientListCmd.Flags().BoolVar(&clientYAML, "yaml", false, "Output in YAML format")
}
