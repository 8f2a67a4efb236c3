package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"xtrace/internal/config"
	"xtrace/internal/model"
	"xtrace/internal/render"
	"xtrace/internal/trace"
	"xtrace/internal/watch"
)

var (
	// Global flags
	verbose    bool
	watchMode  bool
	configPath string
	outputPath string

	// Logger
	logger   *zap.Logger
	logLevel = zap.NewAtomicLevel()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "xtrace <if-file> <xtr-file>",
	Short: "xtrace - human-readable rendering of UPPAAL XTR traces",
	Long: `xtrace reads a model in the UPPAAL intermediate format and an XTR
trace file and prints the trace to stdout in a human readable format:
locations, integer values and clock-difference zone constraints.

Pass '-' as the model file to read the intermediate format from stdin.
With --watch the tool keeps running and re-renders whenever the trace
file is rewritten.`,
	Args: cobra.ExactArgs(2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger. The level lives in an atomic so the
		// config file can adjust it once it has been loaded.
		logLevel.SetLevel(zapcore.InfoLevel)
		if verbose {
			logLevel.SetLevel(zapcore.DebugLevel)
		}
		cfg := zap.NewProductionConfig()
		cfg.Level = logLevel
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// --verbose wins over the config file's logging level.
	if !verbose {
		if lvl, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
			logLevel.SetLevel(lvl)
		} else {
			logger.Warn("unknown logging level, keeping info",
				zap.String("level", cfg.Logging.Level))
		}
	}
	opts := render.Options{
		Variables: cfg.Render.Variables,
		Zones:     cfg.Render.Zones,
	}

	// Load the model. '-' selects stdin, for the model stream only.
	var modelStream io.Reader
	if args[0] == "-" {
		modelStream = os.Stdin
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		modelStream = f
	}
	m, err := model.Load(modelStream)
	if err != nil {
		return fmt.Errorf("load model %s: %w", args[0], err)
	}
	logger.Debug("model loaded",
		zap.Int("cells", len(m.Layout)),
		zap.Int("processes", len(m.Processes)),
		zap.Int("clocks", m.ClockCount()),
		zap.Int("variables", m.VariableCount()))

	out := io.Writer(os.Stdout)
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if watchMode {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		runner := &watch.Runner{
			Model:    m,
			Path:     args[1],
			Out:      out,
			Opts:     opts,
			Debounce: time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond,
			Log:      logger,
		}
		return runner.Run(ctx)
	}

	f, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer f.Close()
	tr, err := trace.NewDecoder(m, f).Trace()
	if err != nil {
		return fmt.Errorf("decode trace %s: %w", args[1], err)
	}
	return render.New(m, opts).Trace(out, tr)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-render whenever the trace file changes")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write rendering to file instead of stdout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
