package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/adapter/storage/redis"
	"github.com/mashirou1234/yesod-auth/internal/core/domain"
	"github.com/mashirou1234/yesod-auth/internal/service"
	"github.com/mashirou1234/yesod-auth/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the webhook configuration",
	}

	var path string
	check := &cobra.Command{
		Use:   "check",
		Short: "Load webhooks.yaml and print the endpoints it yields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Webhooks.ConfigPath
			}
			log := logger.New(cfg.Log.Level, true)
			loader := service.NewWebhookConfigLoader(path, cfg.Webhooks.SecretsDir, log)
			wc, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}
			printWebhookConfig(cmd.OutOrStdout(), path, wc)
			return nil
		},
	}
	check.Flags().StringVar(&path, "file", "", "webhooks.yaml to check (default webhooks.config_path)")

	cfgCmd.AddCommand(check)
	return cfgCmd
}

func printWebhookConfig(out io.Writer, path string, wc *domain.WebhookConfig) {
	fmt.Fprintf(out, "%s: %d endpoint(s)\n", path, len(wc.Endpoints))
	s := wc.Settings
	fmt.Fprintf(out, "max_retries=%d retry_base_delay_seconds=%d delivery_timeout_seconds=%d log_retention_days=%d\n\n",
		s.MaxRetries, s.RetryBaseDelaySeconds, s.DeliveryTimeoutSeconds, s.LogRetentionDays)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tENABLED\tURL\tSECRET\tEVENTS")
	for _, ep := range wc.Endpoints {
		secret := "(none)"
		if ep.Secret != "" {
			secret = "********"
		}
		events := append([]string(nil), ep.Events...)
		sort.Strings(events)
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\t%s\n", ep.ID, ep.Enabled, ep.URL, secret, strings.Join(events, ","))
	}
	_ = tw.Flush()
}

func newSignCmd() *cobra.Command {
	var (
		secret    string
		eventType string
		timestamp int64
	)
	cmd := &cobra.Command{
		Use:   "sign [payload-file]",
		Short: "Print the signature headers a receiver should expect for a payload",
		Long:  "Reads the payload from the given file, or stdin when omitted, and prints the headers the worker would send.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret is required")
			}
			var payload []byte
			var err error
			if len(args) == 1 {
				payload, err = os.ReadFile(args[0])
			} else {
				payload, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading payload: %w", err)
			}
			body := strings.TrimRight(string(payload), "\r\n")

			signer := service.NewHMACWebhookSigner()
			out := cmd.OutOrStdout()
			if timestamp > 0 {
				sig, _ := signer.Sign(body, secret, timestamp)
				fmt.Fprintf(out, "X-Webhook-Signature: %s\nX-Webhook-Timestamp: %d\n", sig, timestamp)
				return nil
			}
			headers := signer.Headers(body, secret, eventType, uuid.NewString())
			keys := make([]string, 0, len(headers))
			for k := range headers {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%s: %s\n", k, headers.Get(k))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "endpoint signing secret")
	cmd.Flags().StringVar(&eventType, "event", domain.EventUserCreated, "event type for X-Webhook-Event")
	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "fixed unix timestamp; prints only the signature pair")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin API token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("jwt.secret is not configured")
			}
			tokens := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
			token, expiresAt, err := tokens.Generate(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject recorded in audit logs")
	return cmd
}

func newEmitCmd() *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "emit <event-type>",
		Short: "Queue a test event for every subscribed endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			payload := map[string]any{}
			if data != "" {
				if err := json.Unmarshal([]byte(data), &payload); err != nil {
					return fmt.Errorf("--data must be a JSON object: %w", err)
				}
			}

			log := logger.New(cfg.Log.Level, true)
			ctx := cmd.Context()

			rdb, err := redis.NewClient(ctx, cfg.Redis, 0, log)
			if err != nil {
				return err
			}
			defer rdb.Close()

			loader := service.NewWebhookConfigLoader(cfg.Webhooks.ConfigPath, cfg.Webhooks.SecretsDir, log)
			if _, err := loader.Load(ctx); err != nil {
				return err
			}

			emitter := service.NewWebhookEmitter(loader, redis.NewEventQueue(rdb, cfg.Webhooks.QueueKey), service.EmitterOptions{
				PushTimeout: cfg.Webhooks.EmitTimeout,
				Disabled:    !cfg.Webhooks.EmitEnabled,
			}, log)
			event := emitter.Emit(ctx, args[0], payload)
			if event == nil {
				return fmt.Errorf("event %q was not queued (no enabled subscriber or queue unavailable)", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), event.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "event data as a JSON object")
	return cmd
}
