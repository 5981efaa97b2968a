package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"commitsugar/internal/services"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change the saved settings.

Saved settings override config.toml and are overridden by COMMITSUGAR_*
environment variables. Pass an empty value to clear a saved setting.`,
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStack()
			if err != nil {
				return err
			}
			defer st.Close()

			cfg := st.config.Resolve(cmd.Context())
			cmd.Printf("Provider:    %s\n", cfg.Provider)
			cmd.Printf("Base URL:    %s\n", cfg.BaseURL)
			cmd.Printf("Model:       %s\n", cfg.ModelName)
			cmd.Printf("Language:    %s\n", cfg.Language)
			cmd.Printf("Git backend: %s\n", cfg.GitBackend)
			cmd.Printf("API key:     %s\n", maskAPIKey(cfg.APIKey))
			cmd.Println()
			cmd.Printf("Config file: %s\n", services.DefaultConfigPath())
			cmd.Printf("Database:    %s\n", st.dbPath)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		provider   string
		baseURL    string
		model      string
		language   string
		gitBackend string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save settings",
		Long: `Save settings.

Examples:
  commitsugar config set --language=en-US
  commitsugar config set --provider=anthropic --model=claude-sonnet-4-5
  commitsugar config set --base-url=`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var update services.SettingsUpdate
			flags := cmd.Flags()
			if flags.Changed("provider") {
				update.Provider = &provider
			}
			if flags.Changed("base-url") {
				update.BaseURL = &baseURL
			}
			if flags.Changed("model") {
				update.ModelName = &model
			}
			if flags.Changed("language") {
				update.Language = &language
			}
			if flags.Changed("git-backend") {
				update.GitBackend = &gitBackend
			}
			if update == (services.SettingsUpdate{}) {
				return fmt.Errorf("nothing to set; see `commitsugar config set --help`")
			}

			st, err := openStack()
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := st.settings.Update(cmd.Context(), update); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
			cmd.Println("Settings saved.")
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "Model provider: openai, anthropic or gemini")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL")
	cmd.Flags().StringVar(&model, "model", "", "Model name")
	cmd.Flags().StringVar(&language, "language", "", "Message language: zh-CN or en-US")
	cmd.Flags().StringVar(&gitBackend, "git-backend", "", "Git backend: gogit or cli")
	return cmd
}

// maskAPIKey keeps the first and last four characters of long keys.
func maskAPIKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 8:
		return "****"
	default:
		return key[:4] + "..." + key[len(key)-4:]
	}
}
