package pactcli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gopact/gopact/pkg/broker"
	"github.com/gopact/gopact/pkg/logging"
	"github.com/gopact/gopact/pkg/metrics"
	"github.com/gopact/gopact/pkg/pact"
	"github.com/gopact/gopact/pkg/pactconfig"
	"github.com/gopact/gopact/pkg/pactio"
	"github.com/gopact/gopact/pkg/providerstate"
	"github.com/gopact/gopact/pkg/tracing"
	"github.com/gopact/gopact/pkg/verifier"
)

var (
	verifyBrokerURL      string
	verifyLocalPact      string
	verifyCustomHeaders  []string
	verifyConsumerName   string
	verifyPublishResults bool
	verifyProviderVer    string
	verifyConcurrency    int
	verifyClientCert     string
	verifyClientKey      string
	verifyRateLimit      float64
	verifyRateBurst      int
	verifyMetricsAddr    string
	verifyOTLPEndpoint   string
	verifyLogFile        string
	verifyLokiURL        string
)

var verifyCmd = &cobra.Command{
	Use:   "verify <provider-name> <provider-url> <provider-setup-url>",
	Short: "Verify pact interactions against a running provider",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		providerName, providerURL, setupURL := args[0], args[1], args[2]

		cfg, err := pactconfig.LoadFile(configPath)
		if err != nil {
			return err
		}
		pactconfig.MergeEnv(cfg)
		applyVerifyFlags(cmd, cfg)

		log, closeLog, err := buildLogger(cfg.Verbose, verifyLogFile, verifyLokiURL)
		if err != nil {
			return err
		}
		defer closeLog()

		pacts, err := loadPacts(cfg, providerName, verifyConsumerName)
		if err != nil {
			return err
		}
		if len(pacts) == 0 {
			return fmt.Errorf("no pact files found for provider %q (use --local-pact or --broker-url)", providerName)
		}

		opts := []verifier.Option{
			verifier.WithLogger(log),
			verifier.WithExtraHeaders(cfg.CustomHeaders),
			verifier.WithConcurrency(verifyConcurrency),
		}

		if verifyClientCert != "" && verifyClientKey != "" {
			opts = append(opts, verifier.WithClientCertificate(verifyClientCert, verifyClientKey))
		}
		if verifyRateLimit > 0 {
			opts = append(opts, verifier.WithRateLimit(verifyRateLimit, verifyRateBurst))
		}
		if verifyOTLPEndpoint != "" {
			tracer := tracing.NewTracer("pactverify", tracing.WithExporter(tracing.NewOTLPExporter(verifyOTLPEndpoint)))
			opts = append(opts, verifier.WithTracer(tracer))
		}
		if verifyMetricsAddr != "" {
			reg := metrics.NewRegistry()
			opts = append(opts, verifier.WithMetrics(reg))
			srv := &http.Server{Addr: verifyMetricsAddr, Handler: reg.Handler()}
			go func() { _ = srv.ListenAndServe() }()
			defer srv.Close()
		}

		var brokerClient broker.BrokerClient
		if cfg.BrokerURL != "" {
			brokerClient = broker.NewClient(broker.Config{BaseURL: cfg.BrokerURL, Token: cfg.BrokerToken})
			if verifyPublishResults {
				opts = append(opts, verifier.WithBroker(brokerClient, cfg.ProviderVersion))
			}
		}

		v, err := verifier.New(providerURL, providerstate.NewHTTPSetter(setupURL, cfg.CustomHeaders), opts...)
		if err != nil {
			return err
		}

		summary, err := v.Verify(cmd.Context(), pacts)
		if err != nil {
			return fmt.Errorf("pactverify: %w", err)
		}

		printSummary(cmd, summary)
		if !summary.Passed() {
			return errVerificationFailed
		}
		return nil
	},
}

func applyVerifyFlags(cmd *cobra.Command, cfg *pactconfig.Config) {
	if cmd.Flags().Changed("broker-url") {
		cfg.BrokerURL = verifyBrokerURL
	}
	if cmd.Flags().Changed("local-pact") {
		cfg.LocalPact = verifyLocalPact
	}
	if cmd.Flags().Changed("consumer-name") {
		cfg.ConsumerName = verifyConsumerName
	} else {
		verifyConsumerName = cfg.ConsumerName
	}
	if cmd.Flags().Changed("provider-version") {
		cfg.ProviderVersion = verifyProviderVer
	}
	if cmd.Flags().Changed("publish-results") {
		cfg.PublishResults = verifyPublishResults
	} else {
		verifyPublishResults = cfg.PublishResults
	}
	if verbose {
		cfg.Verbose = true
	}
	if cfg.CustomHeaders == nil {
		cfg.CustomHeaders = map[string]string{}
	}
	for _, h := range verifyCustomHeaders {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			continue
		}
		cfg.CustomHeaders[name] = strings.TrimSpace(value)
	}
}

func loadPacts(cfg *pactconfig.Config, providerName, consumerName string) ([]*pact.Pact, error) {
	if cfg.LocalPact != "" {
		paths, err := pactconfig.DiscoverPactFiles(cfg.LocalPact)
		if err != nil {
			return nil, err
		}
		reader := pactio.NewReader()
		pacts := make([]*pact.Pact, 0, len(paths))
		for _, p := range paths {
			doc, err := reader.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("pactverify: reading %s: %w", p, err)
			}
			pacts = append(pacts, doc)
		}
		return pacts, nil
	}

	if cfg.BrokerURL == "" {
		return nil, fmt.Errorf("pactverify: need --local-pact or --broker-url")
	}
	client := broker.NewClient(broker.Config{BaseURL: cfg.BrokerURL, Token: cfg.BrokerToken})
	return client.PactsFor(context.Background(), providerName, consumerName)
}

func logLevel(verbose bool) logging.Level {
	if verbose {
		return logging.LevelDebug
	}
	return logging.LevelInfo
}

// buildLogger assembles the run's slog.Logger, fanning out to stderr plus
// whichever of --log-file / --loki-url were given, via logging.MultiHandler.
// The returned close func flushes and closes every handler that needs it and
// must be deferred by the caller.
func buildLogger(verboseCfg bool, logFile, lokiURL string) (*slog.Logger, func(), error) {
	level := logLevel(verboseCfg)
	handlers := []slog.Handler{logging.New(logging.Config{Level: level}).Handler()}
	closers := []func() error{}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("pactverify: opening --log-file: %w", err)
		}
		handlers = append(handlers, logging.New(logging.Config{Level: level, Format: logging.FormatJSON, Output: f}).Handler())
		closers = append(closers, f.Close)
	}

	if lokiURL != "" {
		loki := logging.NewLokiHandler(lokiURL,
			logging.WithLokiLabels(map[string]string{"job": "pactverify"}),
			logging.WithLokiLevel(level))
		handlers = append(handlers, loki)
		closers = append(closers, loki.Close)
	}

	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), closeAll, nil
	}
	return slog.New(logging.NewMultiHandler(handlers...)), closeAll, nil
}

func printSummary(cmd *cobra.Command, summary verifier.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s\n", summary.RunID)
	for _, p := range summary.Pacts {
		fmt.Fprintf(out, "%s -> %s\n", p.Consumer, p.Provider)
		for _, i := range p.Interactions {
			fmt.Fprintf(out, "  [%s] %s\n", i.Status, i.Description)
			for _, m := range i.Mismatches {
				fmt.Fprintf(out, "      %s: %s (expected %q, got %q)\n", m.Path, m.Reason, m.Expected, m.Actual)
			}
		}
	}
	if summary.Passed() {
		fmt.Fprintln(out, "\nVerification PASSED")
	} else {
		fmt.Fprintln(out, "\nVerification FAILED")
	}
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&verifyBrokerURL, "broker-url", "b", "", "Pact Broker base URL to fetch pacts from and publish results to")
	verifyCmd.Flags().StringVarP(&verifyLocalPact, "local-pact", "l", "", "path or glob to local pact JSON file(s)")
	verifyCmd.Flags().StringArrayVar(&verifyCustomHeaders, "custom-provider-header", nil, "extra header sent with every provider/state request, as Name:Value (repeatable)")
	verifyCmd.Flags().StringVar(&verifyConsumerName, "consumer-name", "", "restrict broker fetch to a single consumer")
	verifyCmd.Flags().BoolVar(&verifyPublishResults, "publish-results", false, "publish pass/fail results back to the broker")
	verifyCmd.Flags().StringVar(&verifyProviderVer, "provider-version", "", "provider version tag attached to published results")
	verifyCmd.Flags().IntVar(&verifyConcurrency, "concurrency", 1, "number of pacts to verify in parallel (interactions within one pact always run sequentially)")
	verifyCmd.Flags().StringVar(&verifyClientCert, "client-cert", "", "client certificate file for providers behind mutual TLS")
	verifyCmd.Flags().StringVar(&verifyClientKey, "client-key", "", "client private key file, paired with --client-cert")
	verifyCmd.Flags().Float64Var(&verifyRateLimit, "rate-limit", 0, "max provider requests per second (0 disables throttling)")
	verifyCmd.Flags().IntVar(&verifyRateBurst, "rate-limit-burst", 5, "token bucket burst size for --rate-limit")
	verifyCmd.Flags().StringVar(&verifyMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while verifying (e.g. :9400)")
	verifyCmd.Flags().StringVar(&verifyOTLPEndpoint, "otlp-endpoint", "", "OTLP HTTP endpoint to export a trace span per interaction")
	verifyCmd.Flags().StringVar(&verifyLogFile, "log-file", "", "also write JSON-formatted logs to this file")
	verifyCmd.Flags().StringVar(&verifyLokiURL, "loki-url", "", "also ship logs to a Loki push endpoint (e.g. http://localhost:3100/loki/api/v1/push)")
}
