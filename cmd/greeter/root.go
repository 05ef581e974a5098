package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/iocboot/bootstrap"
	"github.com/kbukum/iocboot/config"
	"github.com/kbukum/iocboot/database"
	"github.com/kbukum/iocboot/diagnostics"
	"github.com/kbukum/iocboot/internal/greeter"
	_ "github.com/kbukum/iocboot/internal/greeter/locale"
)

const serviceName = "greeter"

// cli holds the global flags and what the commands share.
type cli struct {
	cfgFile string
	envFile string
	hosted  bool
	verbose bool

	out     io.Writer
	appOpts []bootstrap.Option
}

func newRootCmd(appOpts ...bootstrap.Option) *cobra.Command {
	c := &cli{appOpts: appOpts}

	root := &cobra.Command{
		Use:   serviceName,
		Short: "Greet people and remember whom you greeted",
		Long: `greeter is a demo application for the iocboot container.

Its modules declare registrars that bind a Greeter, a phrasebook and a
repository of greetings. At startup the container discovers them, either in
every declared module (--hosted=false) or only in modules linked into this
binary (--hosted).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			c.out = cmd.OutOrStdout()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default: search config.yml)")
	flags.StringVar(&c.envFile, "env-file", "", "env file (default: search .env)")
	flags.BoolVar(&c.hosted, "hosted", false, "discover only modules linked into this binary")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newGreetCmd(c),
		newHistoryCmd(c),
		newForgetCmd(c),
		newBindingsCmd(c),
		newServeCmd(c),
		newVersionCmd(c),
	)
	return root
}

// loadConfig reads the config file and environment and applies the flags.
func (c *cli) loadConfig(cmd *cobra.Command) (*greeter.Config, error) {
	var opts []config.LoaderOption
	if c.cfgFile != "" {
		opts = append(opts, config.WithConfigFile(c.cfgFile))
	}
	if c.envFile != "" {
		opts = append(opts, config.WithEnvFile(c.envFile))
	}

	cfg := &greeter.Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("hosted") {
		cfg.Container.Hosted = c.hosted
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newApp creates the application with its database and diagnostics
// components. The components are seeded into the container, so registrars
// can depend on them.
func (c *cli) newApp(cmd *cobra.Command, mutate ...func(*greeter.Config)) (*bootstrap.App[*greeter.Config], error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	for _, fn := range mutate {
		fn(cfg)
	}

	opts := append([]bootstrap.Option{bootstrap.WithSummaryOutput(cmd.ErrOrStderr())}, c.appOpts...)
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}

	db := database.NewComponent(cfg.Database, app.Logger).WithAutoMigrate(greeter.Models()...)
	if err := app.RegisterComponent(db); err != nil {
		return nil, err
	}
	diag := diagnostics.New(cfg.Diagnostics, app, app.Logger)
	if err := app.RegisterComponent(diag); err != nil {
		return nil, err
	}
	return app, nil
}

// run starts the application, hands task the resolved Greeter and shuts the
// application down again.
func (c *cli) run(cmd *cobra.Command, task func(ctx context.Context, g greeter.Greeter) error) error {
	app, err := c.newApp(cmd)
	if err != nil {
		return err
	}
	return app.RunTask(cmd.Context(), func(ctx context.Context) error {
		g, err := greeter.Default()
		if err != nil {
			return err
		}
		return task(ctx, g)
	})
}
