package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"vinted-listing/internal/app"
	"vinted-listing/internal/config"
	"vinted-listing/internal/logging"
)

// startLambda is replaced in tests; lambda.Start never returns.
var startLambda = func(handler any) { lambda.Start(handler) }

func newLambdaCmd(stdout *os.File) *cobra.Command {
	return &cobra.Command{
		Use:           "lambda",
		Short:         "Démarrer le gestionnaire AWS Lambda (événements S3)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg := config.Default()
			cfg.Tenant.Source = config.TenantSourceDynamo
			cfg.ApplyEnv(os.Getenv)
			apiKey := strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
			if apiKey == "" {
				return fmt.Errorf("variable d'environnement %s vide", cfg.APIKeyEnv)
			}
			logger, _, err := logging.New(stdout, "", true)
			if err != nil {
				return err
			}
			h, closer, err := app.NewS3Handler(ctx, cfg, apiKey, logger)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}
			logger.Emit(logging.Event{Event: "startup", Provider: cfg.Provider, Model: cfg.Model, Tenant: cfg.TenantKey().String()})
			startLambda(h.HandleS3Event)
			return nil
		},
	}
}
