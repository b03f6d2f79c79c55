package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vinted-listing/internal/app"
)

func newS3Cmd(stdout *os.File, flags *genFlags) *cobra.Command {
	return &cobra.Command{
		Use:           "s3 <bucket> <clé>",
		Short:         "Traiter un fichier déjà déposé dans S3, comme le déclencheur Lambda",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("répertoire courant illisible : %w", err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			resp, err := app.RunS3(ctx, app.Options{
				ConfigPath:   flags.configArg,
				Concurrency:  flags.concurrencyArg,
				MaxRetries:   flags.maxRetriesArg,
				Model:        flags.modelArg,
				ClientID:     flags.clientIDArg,
				JobName:      flags.jobNameArg,
				TenantSource: flags.tenantSourceArg,
				LogFile:      flags.logFileArg,
				JSONLog:      flags.jsonArg,
				CWD:          cwd,
				Stdout:       stdout,
			}, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, resp.Body)
			return nil
		},
	}
}
