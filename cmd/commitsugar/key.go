package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"commitsugar/internal/models"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage provider API keys in the OS keyring",
	}
	cmd.AddCommand(newKeySetCmd())
	cmd.AddCommand(newKeyDeleteCmd())
	cmd.AddCommand(newKeyListCmd())
	return cmd
}

func newKeySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider> [key]",
		Short: "Store the API key for a provider (reads stdin when key is omitted)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := strings.TrimSpace(args[0])
			if !models.IsSupportedProvider(provider) {
				return fmt.Errorf("provider must be 'openai', 'anthropic', or 'gemini'")
			}
			var key string
			if len(args) == 2 {
				key = args[1]
			} else {
				line, err := bufio.NewReader(stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read API key from stdin: %w", err)
				}
				key = line
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return fmt.Errorf("API key cannot be empty")
			}

			st, err := openStack()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.keyring.StoreApiKey(provider, []byte(key)); err != nil {
				return fmt.Errorf("failed to store API key: %w", err)
			}
			cmd.Printf("Stored API key for %s.\n", provider)
			return nil
		},
	}
}

func newKeyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove the stored API key for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStack()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.keyring.DeleteApiKey(strings.TrimSpace(args[0])); err != nil {
				return fmt.Errorf("failed to delete API key: %w", err)
			}
			cmd.Printf("Deleted API key for %s.\n", args[0])
			return nil
		},
	}
}

func newKeyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List providers with a stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStack()
			if err != nil {
				return err
			}
			defer st.Close()

			keys, err := st.keyring.ListApiKeys()
			if err != nil {
				return fmt.Errorf("failed to list API keys: %w", err)
			}
			if len(keys) == 0 {
				cmd.Println("No API keys stored.")
				return nil
			}
			for _, k := range keys {
				cmd.Println(k["provider"])
			}
			return nil
		},
	}
}
