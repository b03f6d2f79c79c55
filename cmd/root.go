package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vinted-listing/internal/app"
)

type genFlags struct {
	configArg       string
	outputDirArg    string
	concurrencyArg  int
	maxRetriesArg   int
	modelArg        string
	clientIDArg     string
	jobNameArg      string
	tenantSourceArg string
	logFileArg      string
	jsonArg         bool
}

var errFailures = errors.New("des fichiers n'ont pas pu être traités")

func Execute() error {
	root := NewRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(normalizeArgs(os.Args[1:]))
	return root.Execute()
}

func NewRootCmd(stdout, stderr *os.File) *cobra.Command {
	flags := &genFlags{}
	showVersion := false

	root := &cobra.Command{
		Use:           "vinted-listing [fichier_ou_dossier ...]",
		Short:         "Génère les annonces Vinted d'un tableau CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGen(stdout, flags, &showVersion),
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.CompletionOptions.HiddenDefaultCmd = true
	bindGenFlags(root, flags)
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "afficher la version")

	genCmd := &cobra.Command{
		Use:           "gen [fichier_ou_dossier ...]",
		Short:         "Générer les annonces des fichiers CSV locaux",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGen(stdout, flags, &showVersion),
	}
	root.AddCommand(genCmd)
	root.AddCommand(newS3Cmd(stdout, flags))
	root.AddCommand(newLambdaCmd(stdout))
	root.AddCommand(newSetCmd(flags))

	versionCmd := &cobra.Command{
		Use:           "version",
		Short:         "Afficher la version",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(stdout)
		},
	}
	root.AddCommand(versionCmd)
	return root
}

func bindGenFlags(cmd *cobra.Command, flags *genFlags) {
	cmd.PersistentFlags().StringVar(&flags.configArg, "config", "", "fichier de configuration, par défaut ~/.vinted-listing/config.yaml")
	cmd.PersistentFlags().StringVarP(&flags.outputDirArg, "out", "o", "", "répertoire de sortie, par défaut le répertoire courant")
	cmd.PersistentFlags().IntVar(&flags.concurrencyArg, "concurrency", 0, "générations simultanées par fichier")
	cmd.PersistentFlags().IntVar(&flags.maxRetriesArg, "max-retries", 0, "nombre maximal de nouvelles tentatives")
	cmd.PersistentFlags().StringVar(&flags.modelArg, "model", "", "modèle de génération")
	cmd.PersistentFlags().StringVar(&flags.clientIDArg, "client", "", "identifiant client de la configuration")
	cmd.PersistentFlags().StringVar(&flags.jobNameArg, "job", "", "nom du traitement dans la configuration client")
	cmd.PersistentFlags().StringVar(&flags.tenantSourceArg, "tenant-source", "", "source de la configuration client : defaults, file ou dynamodb")
	cmd.PersistentFlags().StringVar(&flags.logFileArg, "log-file", "", "fichier de journal NDJSON")
	cmd.PersistentFlags().BoolVar(&flags.jsonArg, "json", false, "journal NDJSON sur la sortie standard")
}

func runGen(stdout *os.File, flags *genFlags, showVersion *bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if showVersion != nil && *showVersion {
			printVersion(stdout)
			return nil
		}
		if len(args) == 0 {
			_ = cmd.Help()
			return nil
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("répertoire courant illisible : %w", err)
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		start := time.Now()
		res, err := app.Run(ctx, app.Options{
			Inputs:       args,
			ConfigPath:   flags.configArg,
			OutputDir:    flags.outputDirArg,
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
		})
		if err != nil {
			return err
		}

		finalLine := fmt.Sprintf("Terminé : %d réussi(s), %d échec(s), durée %s", res.Succeeded, res.Failed, formatDurationMS(time.Since(start).Milliseconds()))
		if res.Failed > 0 {
			return fmt.Errorf("%s : %w", finalLine, errFailures)
		}
		if !flags.jsonArg {
			fmt.Fprintln(stdout, finalLine)
		}
		return nil
	}
}

func formatDurationMS(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	if ms < 60_000 {
		return fmt.Sprintf("%.2fs", float64(ms)/1000.0)
	}
	minutes := ms / 60_000
	remainMS := ms % 60_000
	if remainMS == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm%.1fs", minutes, float64(remainMS)/1000.0)
}

// normalizeArgs makes "vinted-listing a.csv" behave like "vinted-listing gen a.csv".
func normalizeArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	switch args[0] {
	case "gen", "s3", "lambda", "set", "help", "completion", "version":
		return args
	case "-h", "--help", "-v", "--version":
		return args
	}
	if !containsPositionalSource(args) {
		return args
	}
	return append([]string{"gen"}, args...)
}

var valueFlags = []string{"--config", "--out", "-o", "--concurrency", "--max-retries", "--model", "--client", "--job", "--tenant-source", "--log-file"}

func containsPositionalSource(args []string) bool {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return i+1 < len(args)
		}
		if takesValue(arg) {
			i++
			continue
		}
		if strings.HasPrefix(arg, "-") {
			continue
		}
		return true
	}
	return false
}

func takesValue(arg string) bool {
	for _, f := range valueFlags {
		if arg == f {
			return true
		}
	}
	return false
}
