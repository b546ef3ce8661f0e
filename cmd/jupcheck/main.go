package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/config"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/mockapi"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	baseURL  string
	offline  bool
	verbose  bool
	format   string
	cfg      *config.Config
	stopMock func()
)

var logger = newLogger()

var rootCmd = &cobra.Command{
	Use:           "jupcheck",
	Short:         "End-to-end checks for the Jupiter swap API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadEnv(logger)

		cfg = config.Load()
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger.SetLevel(cfg.Level())
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		if offline {
			url, stop, err := startMock()
			if err != nil {
				return err
			}
			cfg.BaseURL, cfg.APIKey, stopMock = url, "", stop
			logger.WithField("url", url).Info("running against the in-process mock api")
		}
		return nil
	},
}

// stopMockServer runs after every command, including failed ones.
func stopMockServer() {
	if stopMock != nil {
		stopMock()
		stopMock = nil
	}
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetOutput(os.Stderr)
	return l
}

func loadEnv(logger *logrus.Logger) {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Debugf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// startMock serves the mock api on a free loopback port.
func startMock() (string, func(), error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("listen for mock api: %w", err)
	}
	srv := &http.Server{Handler: mockapi.NewServer(mockapi.ServerConfig{}, logger).Handler()}
	go func() { _ = srv.Serve(l) }()
	return "http://" + l.Addr().String(), func() { _ = srv.Close() }, nil
}

func pages() *jupiter.Pages {
	return jupiter.NewPages(httpclient.New(httpclient.Config{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		Timeout:   cfg.HTTPTimeout,
		RateLimit: cfg.RateLimitRPS,
		Burst:     cfg.RateLimitBurst,
		Logger:    logger,
	}))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base url (default: JUPITER_BASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Run against an in-process mock api")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "o", "text", "Output format: text, json or yaml")

	cobra.OnFinalize(stopMockServer)

	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(perfCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Error("jupcheck failed")
		os.Exit(1)
	}
}
