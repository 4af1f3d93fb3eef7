package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/memtree"
	"github.com/brettbedarf/memtree/config"
	"github.com/brettbedarf/memtree/internal/util"
	"github.com/brettbedarf/memtree/requests"
	"github.com/brettbedarf/memtree/tree"
)

// rootOptions are the flags shared by every subcommand
type rootOptions struct {
	configPath string
	verbose    int
	nodesDef   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "memtree",
		Short:         "Build, print and mount in-memory file trees",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	cmd.PersistentFlags().IntVarP(&opts.verbose, "verbose", "v", config.InfoVerbose,
		"Log verbosity level between 1 (error) and 5 (trace).")
	cmd.PersistentFlags().StringVarP(&opts.nodesDef, "nodes", "n", "", "Path to a JSON or YAML nodes manifest")

	cmd.AddCommand(newRenderCmd(opts), newCheckCmd(opts), newMountCmd(opts))
	return cmd
}

// init loads config and sets up logging. An explicit --verbose beats the file.
func (o *rootOptions) init(cmd *cobra.Command) error {
	override := &config.ConfigOverride{}
	if o.configPath != "" {
		fileOverride, err := config.LoadConfigOverrideFile(o.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		override = fileOverride
	}
	if cmd.Flags().Changed("verbose") || override.LogLvl == nil {
		override.LogLvl = util.Pointer(o.verbose)
	}
	o.cfg = config.NewConfig(override)

	util.InitializeLogger(o.cfg.LogLvl)
	logger := util.GetLogger("main")
	logger.Debug().Str("config", o.configPath).Str("nodes", o.nodesDef).Msg("memtree initializing")
	return nil
}

// buildTree builds a tree from the nodes manifest, or the demo tree when none
// was given. The returned summary counts manifest results.
func (o *rootOptions) buildTree() (*tree.Tree, requests.Summary, error) {
	logger := util.GetLogger("main")
	t := memtree.New(o.cfg)

	if o.nodesDef == "" {
		logger.Warn().Msg("No nodes manifest provided, building demo tree")
		if err := buildDemo(t); err != nil {
			return nil, requests.Summary{}, err
		}
		return t, requests.Summary{}, nil
	}

	reqs, err := requests.LoadFile(o.nodesDef)
	if err != nil {
		return nil, requests.Summary{}, fmt.Errorf("failed to load nodes manifest: %w", err)
	}
	logger.Debug().Str("nodes", o.nodesDef).Int("requests", len(reqs)).Msg("Nodes manifest loaded successfully")

	results := requests.Apply(t, reqs)
	for _, r := range results {
		if r.Err != nil {
			logger.Error().Err(r.Err).Str("uuid", r.Request.GetRequest().UUID).Msg("Request failed")
		}
	}
	return t, requests.Summarize(results), nil
}

// buildDemo creates the sample tree used when no manifest is supplied
func buildDemo(b memtree.TreeBuilder) error {
	for _, dir := range []string{
		"folder-1",
		"folder-1/test",
		"folder-2/hello",
		"folder-2/hellow/collection",
	} {
		if err := b.CreateDirectory(dir); err != nil {
			return err
		}
	}

	files := []struct {
		path     string
		contents string
	}{
		{"folder-2/readme.md", "this is so cool"},
		{"folder-2/hellow/collection/virus.exe", "this is cool"},
		{"main-readme.md", "y dsfs 54005"},
		{"main-readme2.md", "this is so cool"},
	}
	for _, f := range files {
		if err := b.CreateFile(f.path, []byte(f.contents)); err != nil {
			return err
		}
	}
	return nil
}
