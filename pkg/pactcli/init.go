package pactcli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gopact/gopact/pkg/pactconfig"
)

var (
	initForce          bool
	initOutput         string
	initProviderName   string
	initProviderURL    string
	initSetupURL       string
	initBrokerURL      string
	initNonInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter .pactverify.yaml",
	Long: `init scaffolds a .pactverify.yaml config file. With no flags it runs
an interactive wizard prompting for the provider name, provider URL, and
provider state-setup URL; pass all three flags to skip the prompts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(initOutput); err == nil && !initForce {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", initOutput)
		}

		haveAllFlags := initProviderName != "" && initProviderURL != "" && initSetupURL != ""
		if !haveAllFlags && !initNonInteractive {
			if err := runWizard(); err != nil {
				return err
			}
		}

		if initProviderName == "" || initProviderURL == "" {
			return fmt.Errorf("pactverify init: provider name and provider URL are required")
		}

		cfg := pactconfig.Default()
		cfg.ProviderName = initProviderName
		cfg.ProviderBaseURL = initProviderURL
		cfg.ProviderSetupURL = initSetupURL
		cfg.BrokerURL = initBrokerURL

		if err := pactconfig.Save(initOutput, cfg); err != nil {
			return fmt.Errorf("pactverify init: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", initOutput)
		return nil
	},
}

func runWizard() error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Provider name").
				Placeholder("order-service").
				Value(&initProviderName).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("provider name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Provider base URL").
				Placeholder("http://localhost:8080").
				Value(&initProviderURL).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("provider URL is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Provider state-setup URL").
				Placeholder("http://localhost:8080/_pact/provider-states").
				Value(&initSetupURL),
			huh.NewInput().
				Title("Pact Broker URL (optional)").
				Placeholder("https://broker.example.com").
				Value(&initBrokerURL),
		),
	)
	return form.Run()
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	initCmd.Flags().StringVarP(&initOutput, "output", "o", pactconfig.DefaultFileName, "path to write")
	initCmd.Flags().StringVar(&initProviderName, "provider-name", "", "provider name (skips the wizard prompt)")
	initCmd.Flags().StringVar(&initProviderURL, "provider-url", "", "provider base URL (skips the wizard prompt)")
	initCmd.Flags().StringVar(&initSetupURL, "provider-setup-url", "", "provider state-setup URL (skips the wizard prompt)")
	initCmd.Flags().StringVar(&initBrokerURL, "broker-url", "", "Pact Broker URL")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "never prompt, fail if required flags are missing")
}
