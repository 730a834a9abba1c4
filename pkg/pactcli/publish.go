package pactcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gopact/gopact/pkg/broker"
	"github.com/gopact/gopact/pkg/pactio"
)

var (
	publishBrokerURL       string
	publishBrokerToken     string
	publishConsumerVersion string
)

var publishCmd = &cobra.Command{
	Use:   "publish <local-pact>",
	Short: "Push a local pact document to a broker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if publishBrokerURL == "" {
			return fmt.Errorf("pactverify publish: --broker-url is required")
		}

		p, err := pactio.NewReader().ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("pactverify publish: %w", err)
		}

		client := broker.NewClient(broker.Config{BaseURL: publishBrokerURL, Token: publishBrokerToken})
		fmt.Fprintf(cmd.OutOrStdout(), "publishing %s -> %s (%d interaction(s)) to %s\n",
			p.Consumer, p.Provider, len(p.Interactions), publishBrokerURL)
		if err := client.PublishPact(cmd.Context(), p, publishConsumerVersion); err != nil {
			return fmt.Errorf("pactverify publish: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVarP(&publishBrokerURL, "broker-url", "b", "", "Pact Broker base URL")
	publishCmd.Flags().StringVar(&publishBrokerToken, "broker-token", "", "Pact Broker auth token")
	publishCmd.Flags().StringVar(&publishConsumerVersion, "consumer-version", "", "consumer version tag to publish under")
}
