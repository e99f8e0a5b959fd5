package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-runway/internal/config"
	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/rpgo/retirement-runway/internal/storage"
)

const appName = "runway"

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions are the persistent flags every subcommand can read.
type rootOptions struct {
	verbose bool
	dataDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:     appName,
		Short:   "Household retirement runway projection",
		Version: version,
		Long: `runway projects a household's retirement cashflows month by month across
a corporate entity and a personal pension, refilling a cash buffer from a
tiered portfolio and reporting how long the assets last.

Examples:
  runway example-config runway.yaml
  runway simulate -c runway.yaml
  runway simulate -c runway.yaml --scenario bear --format markdown
  runway compare -c runway.yaml
  runway serve --port 8080`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", defaultDataDir(), "Directory for stored settings (env RUNWAY_DATA_DIR)")

	root.AddCommand(
		newSimulateCmd(opts),
		newCompareCmd(opts),
		newServeCmd(opts),
		newConfigCmd(opts),
		newExampleConfigCmd(),
		newFrictionCmd(),
	)
	return root
}

func defaultDataDir() string {
	if dir := os.Getenv("RUNWAY_DATA_DIR"); dir != "" {
		return dir
	}
	return "data"
}

func (o *rootOptions) logger(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func (o *rootOptions) store() (*storage.Store, error) {
	return storage.NewStore(o.dataDir)
}

// loadConfiguration reads path when given, otherwise the stored settings.
// With nothing stored an empty configuration is returned so the caller
// reports every missing setting at once.
func (o *rootOptions) loadConfiguration(parser *config.InputParser, path string) (*domain.Configuration, error) {
	if path != "" {
		return parser.LoadFromFile(path)
	}
	store, err := o.store()
	if err != nil {
		return nil, err
	}
	var cfg domain.Configuration
	if err := store.Load(storage.KeyRetirementConfig, &cfg); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &domain.Configuration{}, nil
		}
		return nil, fmt.Errorf("failed to load stored settings: %w", err)
	}
	return &cfg, nil
}
