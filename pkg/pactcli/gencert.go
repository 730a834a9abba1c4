package pactcli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	gotls "github.com/gopact/gopact/pkg/tls"
)

var (
	genCertOut      string
	genCertKeyOut   string
	genCertCommon   string
	genCertDNSNames []string
	genCertForce    bool
)

var genCertCmd = &cobra.Command{
	Use:   "gen-cert",
	Short: "Generate a self-signed certificate for exercising --client-cert locally",
	Long: `gen-cert writes a self-signed certificate and private key to disk, for
standing up a local mTLS-enabled stand-in provider to exercise "pactverify
verify --client-cert" without a real CA. Re-running it loads and reuses an
existing cert/key pair at the same paths unless --force regenerates them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if genCertForce {
			_ = os.Remove(genCertOut)
			_ = os.Remove(genCertKeyOut)
		}

		cfg := gotls.DefaultCertificateConfig()
		cfg.CommonName = genCertCommon
		if len(genCertDNSNames) > 0 {
			cfg.DNSNames = genCertDNSNames
		}

		cert, err := gotls.EnsureCertificate(cfg, genCertOut, genCertKeyOut)
		if err != nil {
			return fmt.Errorf("pactverify gen-cert: %w", err)
		}
		if err := gotls.VerifyKeyPair(cert.Certificate, cert.PrivateKey); err != nil {
			return fmt.Errorf("pactverify gen-cert: generated cert/key do not match: %w", err)
		}

		info := gotls.GetCertificateInfo(cert.Certificate)
		fmt.Fprintf(cmd.OutOrStdout(), "%s / %s\n", genCertOut, genCertKeyOut)
		fmt.Fprintf(cmd.OutOrStdout(), "subject: %s\nvalid until: %s\ndns names: %v\n",
			info.Subject, info.NotAfter, info.DNSNames)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genCertCmd)
	genCertCmd.Flags().StringVar(&genCertOut, "cert-out", "pactverify-cert.pem", "path to write the generated certificate")
	genCertCmd.Flags().StringVar(&genCertKeyOut, "key-out", "pactverify-key.pem", "path to write the generated private key")
	genCertCmd.Flags().StringVar(&genCertCommon, "common-name", "localhost", "certificate common name")
	genCertCmd.Flags().StringSliceVar(&genCertDNSNames, "dns-name", nil, "additional DNS SAN entries (repeatable)")
	genCertCmd.Flags().BoolVar(&genCertForce, "force", false, "regenerate even if a cert/key pair already exists at these paths")
}
