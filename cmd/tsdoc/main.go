package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tsdoc/internal/errors"
	"tsdoc/internal/logger"
	"tsdoc/internal/options"
	"tsdoc/internal/pipeline"
	"tsdoc/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:           "tsdoc",
		Short:         "Convert TypeScript sources into a documentation model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	optionFiles []string
	envFile     string
	logJSON     bool
	watch       bool
	limit       int
)

// defaultOptionFiles are read from the working directory when --options is not given.
var defaultOptionFiles = []string{"tsdoc.yaml", "tsdoc.yml", "tsdoc.toml", "tsdoc.json"}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// formatError renders err followed by its hints, one per line.
func formatError(err error) string {
	var b strings.Builder
	b.WriteString(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		b.WriteString("\nhint: ")
		b.WriteString(hint)
	}
	return b.String()
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&optionFiles, "options", nil, "Option files (.yaml, .toml or .json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with TSDOC_* variables")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")

	convertCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Convert again whenever a source file changes")
	options.New(nil).BindFlags(convertCmd.Flags())

	historyCmd.Flags().String(options.Store, "", "SQLite database holding the run history")
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadOptions reads option files, the environment and flags into a fresh
// registry and fails when any of them reported an error.
func loadOptions(fs afero.Fs, cwd string, flags *pflag.FlagSet, args []string) (*options.Options, *logger.ZapLogger, error) {
	log := logger.New(logger.Options{JSON: logJSON})

	files := optionFiles
	if len(files) == 0 {
		for _, name := range defaultOptionFiles {
			if ok, _ := afero.Exists(fs, filepath.Join(cwd, name)); ok {
				files = append(files, filepath.Join(cwd, name))
			}
		}
	}

	opts := options.New(log)
	opts.Read(fs, options.Sources{
		Files:  files,
		DotEnv: filepath.Join(cwd, envFile),
		Flags:  flags,
		Args:   args,
	})
	log.SetLevel(opts.String(options.LogLevel))

	if opts.HasErrors() {
		return nil, log, errors.Newf("%d option errors", log.ErrorCount())
	}
	return opts, log, nil
}

var convertCmd = &cobra.Command{
	Use:   "convert [entry points...]",
	Short: "Convert sources and optionally write the JSON export",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		fs := afero.NewOsFs()

		opts, log, err := loadOptions(fs, cwd, cmd.Flags(), args)
		defer log.Sync()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p := pipeline.New(fs, cwd, opts)
		if watch {
			log.Write("watching for changes, press Ctrl+C to stop")
			return p.Watch(ctx, func(res *pipeline.Result, err error) {
				if err != nil {
					log.Error("%v", err)
				}
			})
		}

		_, err = p.Run(ctx)
		return err
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [run id]",
	Short: "List recorded runs, or show the reflections of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		opts, log, err := loadOptions(afero.NewOsFs(), cwd, cmd.Flags(), nil)
		defer log.Sync()
		if err != nil {
			return err
		}

		path := opts.String(options.Store)
		if path == "" {
			return errors.WithHintf(errors.New("no run history configured"),
			"set the %s option or pass --%s", options.Store, options.Store)
		}
		store, err := storage.NewSQLiteStore(path)
		if err != nil {
			return err
		}
		defer store.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()

		if len(args) == 1 {
			return printRun(cmd.Context(), w, store, args[0])
		}
		return printRuns(cmd.Context(), w, store)
	},
}

func printRuns(ctx context.Context, w *tabwriter.Writer, store storage.Store) error {
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "ID\tSTARTED\tPROJECT\tREFLECTIONS\tDIAGNOSTICS\tDURATION")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Project,
			r.ReflectionCount, len(r.Diagnostics), r.Duration.Round(time.Millisecond))
	}
	return nil
}

func printRun(ctx context.Context, w *tabwriter.Writer, store storage.Store, id string) error {
	run, err := store.LoadRun(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "run %s of %s at %s (options %s)\n", run.ID, run.Project, run.StartedAt.Local().Format(time.DateTime), run.OptionsDigest)
	for _, d := range run.Diagnostics {
		fmt.Fprintln(w, d)
	}
	fmt.Fprintln(w, "ID\tKIND\tNAME\tPARENT")
	for _, r := range run.Reflections {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", r.ID, r.Kind, r.Name, r.Parent)
	}
	return nil
}
