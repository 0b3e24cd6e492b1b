package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chorus-search/chorus/internal/adapters/driven/config/file"
	bleveindex "github.com/chorus-search/chorus/internal/adapters/driven/index/bleve"
	"github.com/chorus-search/chorus/internal/adapters/driven/storage/sqlite"
	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/services"
	"github.com/chorus-search/chorus/internal/logger"
)

// Defaults for the persistent flags.
const (
	DefaultConfigPath = "chorus.toml"
	DefaultDataDir    = ".chorus"
)

var (
	configPath string
	dataDir    string
	verbose    bool
)

// NewRootCmd creates the root command for the chorus CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chorus",
		Short: "Many sources, one index",
		Long: `Chorus synchronizes documents from configured remote sources
(GitHub issues, Google Drive, local file trees) into a single
searchable index with one unified schema.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", DefaultConfigPath, "Path to the sources configuration file")
	cmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", DefaultDataDir, "Directory holding the index and run history")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newRunsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

// engine bundles the wired service graph behind the commands.
type engine struct {
	provider *file.Provider
	registry *services.Registry
	unifier  *services.SchemaUnifier
	schema   domain.Schema
	index    *bleveindex.Store
	runs     *sqlite.RunStore
	syncer   *services.Synchronizer
	docs     *services.DocumentService
}

// buildEngine assembles the full service graph: configuration,
// connector registry, unified schema, index store, run history and
// the synchronizer on top.
func buildEngine() (*engine, error) {
	provider, err := file.NewProvider(configPath)
	if err != nil {
		return nil, err
	}

	registry := services.NewBuiltinRegistry()
	unifier := services.NewSchemaUnifier(registry, provider.ActiveKinds())
	schema, err := unifier.BuildSchema()
	if err != nil {
		return nil, err
	}

	index, err := bleveindex.Open(dataDir, schema)
	if err != nil {
		return nil, err
	}

	runs, err := sqlite.NewRunStore(dataDir)
	if err != nil {
		index.Close()
		return nil, err
	}

	return &engine{
		provider: provider,
		registry: registry,
		unifier:  unifier,
		schema:   schema,
		index:    index,
		runs:     runs,
		syncer: services.NewSynchronizer(registry, provider, index, schema,
			services.WithRunStore(runs)),
		docs: services.NewDocumentService(index, unifier),
	}, nil
}

// close releases the engine's stores.
func (e *engine) close() {
	if e.runs != nil {
		e.runs.Close()
	}
	if e.index != nil {
		e.index.Close()
	}
}
