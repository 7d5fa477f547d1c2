// Package cli provides the command-line interface for openapi-domaingen.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/spf13/cobra"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/adapters/console"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/adapters/history"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/config"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/generator"
)

// CLI holds the command-line interface configuration.
type CLI struct {
	log     logger.ILogger
	rootCmd *cobra.Command
	genOpts []generator.Option

	configFile string
	noColor    bool

	flags struct {
		input          string
		output         string
		baseURL        string
		docs           string
		fallback       string
		validate       bool
		dryRun         bool
		force          bool
		noHistory      bool
		timeoutSeconds int
	}

	historyDomain string
	historyLimit  int
}

// New creates a new CLI instance.
func New(log logger.ILogger, opts ...generator.Option) *CLI {
	cli := &CLI{
		log:     log,
		genOpts: opts,
	}

	cli.rootCmd = &cobra.Command{
		Use:           "openapi-domaingen",
		Short:         "Generate domain packages from OpenAPI specifications",
		Long:          "A CLI tool that turns an OpenAPI 3.x specification into per-domain packages: zod schemas, request types, CRUD data-access functions, example requests and SQL migrations. Regeneration is incremental and never overwrites hand-written files.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.rootCmd.PersistentFlags().StringVarP(&cli.configFile, "config", "c", "", "Path to a YAML or JSON configuration file")
	cli.rootCmd.PersistentFlags().BoolVar(&cli.noColor, "no-color", false, "Disable coloured output")

	cli.rootCmd.AddCommand(
		cli.generateCmd(),
		cli.diffCmd(),
		cli.entitiesCmd(),
		cli.historyCmd(),
	)

	return cli
}

// Execute runs the CLI.
func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

func (c *CLI) generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [source]",
		Short: "Generate or update the domain packages",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.runGenerate,
	}

	c.sourceFlags(cmd)
	cmd.Flags().StringVar(&c.flags.baseURL, "base-url", "", "Base URL baked into api.ts and requests.http")
	cmd.Flags().StringVarP(&c.flags.docs, "docs", "f", "", "Also write an entity reference: pdf, docx, confluence")
	cmd.Flags().BoolVar(&c.flags.dryRun, "dry-run", false, "Report what would be written without touching disk")
	cmd.Flags().BoolVar(&c.flags.force, "force", false, "Regenerate even when nothing changed")
	cmd.Flags().BoolVar(&c.flags.noHistory, "no-history", false, "Do not record the run in the history database")

	return cmd
}

func (c *CLI) diffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [source]",
		Short: "Show what changed since the last generation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.runDiff,
	}

	c.sourceFlags(cmd)

	return cmd
}

func (c *CLI) entitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities [source]",
		Short: "List the entities extracted from a specification",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.runEntities,
	}

	c.sourceFlags(cmd)

	return cmd
}

func (c *CLI) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded generation runs",
		Args:  cobra.NoArgs,
		RunE:  c.runHistory,
	}

	cmd.Flags().StringVarP(&c.flags.output, "output", "o", "", "Output directory holding the history database")
	cmd.Flags().StringVarP(&c.historyDomain, "domain", "d", "", "Only show runs of this domain")
	cmd.Flags().IntVarP(&c.historyLimit, "limit", "n", 20, "Maximum number of runs (0 for all)")

	return cmd
}

func (c *CLI) sourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.flags.input, "input", "i", "", "Path or URL of the OpenAPI specification (- for stdin)")
	cmd.Flags().StringVarP(&c.flags.output, "output", "o", "", "Output directory of the domain packages")
	cmd.Flags().StringVar(&c.flags.fallback, "fallback-domain", "", "Domain receiving entities no pattern matches")
	cmd.Flags().BoolVar(&c.flags.validate, "validate", false, "Validate the specification before generating")
	cmd.Flags().IntVar(&c.flags.timeoutSeconds, "timeout", 0, "Timeout in seconds for remote specifications")
}

func (c *CLI) runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig(cmd, args)
	if err != nil {
		return err
	}

	res, err := c.generator().Run(cmd.Context(), generatorOptions(cfg))
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	printer := c.printer(cmd)
	for _, dr := range res.Domains {
		if err := printer.PrintDiff(dr.Domain, dr.Report); err != nil {
			return err
		}
		if err := printer.PrintResults(dr.Files); err != nil {
			return err
		}
	}

	if cfg.DryRun {
		c.log.Infof("Dry run: nothing was written")
	}

	return nil
}

func (c *CLI) runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig(cmd, args)
	if err != nil {
		return err
	}

	res, err := c.generator().Plan(cmd.Context(), generatorOptions(cfg))
	if err != nil {
		return fmt.Errorf("diff failed: %w", err)
	}

	printer := c.printer(cmd)
	for _, dr := range res.Domains {
		if err := printer.PrintDiff(dr.Domain, dr.Report); err != nil {
			return err
		}
	}

	return nil
}

func (c *CLI) runEntities(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig(cmd, args)
	if err != nil {
		return err
	}

	groups, _, err := c.generator().Extract(cmd.Context(), generatorOptions(cfg))
	if err != nil {
		return err
	}

	return c.printer(cmd).PrintEntities(groups)
}

func (c *CLI) runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	store, err := history.Open(filepath.Join(cfg.Output, history.DefaultPath))
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), c.historyDomain, c.historyLimit)
	if err != nil {
		return err
	}

	return c.printer(cmd).PrintHistory(runs)
}

func (c *CLI) generator() *generator.Generator {
	return generator.New(c.log, c.genOpts...)
}

func (c *CLI) printer(cmd *cobra.Command) *console.Printer {
	return console.New(cmd.OutOrStdout(), console.Options{NoColor: c.noColor})
}

// loadConfig layers explicitly set flags and the positional source over the loaded
// configuration and validates the result.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if flags.Changed("input") {
		cfg.Input = c.flags.input
	}
	if flags.Changed("output") {
		cfg.Output = c.flags.output
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = c.flags.baseURL
	}
	if flags.Changed("docs") {
		cfg.Docs = c.flags.docs
	}
	if flags.Changed("fallback-domain") {
		cfg.FallbackDomain = c.flags.fallback
	}
	if flags.Changed("validate") {
		cfg.Validate = c.flags.validate
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = c.flags.dryRun
	}
	if flags.Changed("force") {
		cfg.Force = c.flags.force
	}
	if flags.Changed("no-history") {
		cfg.NoHistory = c.flags.noHistory
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = c.flags.timeoutSeconds
	}

	if err := cfg.Check(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func generatorOptions(cfg *config.Config) generator.Options {
	return generator.Options{
		Source:         cfg.Input,
		Output:         cfg.Output,
		BaseURL:        cfg.BaseURL,
		Docs:           cfg.Docs,
		Validate:       cfg.Validate,
		DryRun:         cfg.DryRun,
		Force:          cfg.Force,
		NoHistory:      cfg.NoHistory,
		Timeout:        cfg.Timeout(),
		FallbackDomain: cfg.FallbackDomain,
		Domains:        cfg.Domains,
		Crud:           cfg.CrudDetection(),
	}
}
