package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vinted-listing/internal/config"
)

func newSetCmd(flags *genFlags) *cobra.Command {
	setCmd := &cobra.Command{
		Use:           "set",
		Short:         "Modifier la configuration locale",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	keyCmd := &cobra.Command{
		Use:           "key <clé>",
		Short:         "Enregistrer la clé API dans ~/.vinted-listing/.env",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			if key == "" {
				return fmt.Errorf("la clé API ne peut pas être vide")
			}
			cfg, paths, err := config.Load(flags.configArg, "")
			if err != nil {
				return err
			}
			return config.UpsertEnvVar(paths.EnvPath, cfg.APIKeyEnv, key)
		},
	}
	setCmd.AddCommand(keyCmd)
	return setCmd
}
