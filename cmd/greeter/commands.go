package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/iocboot/database/query"
	"github.com/kbukum/iocboot/internal/greeter"
	"github.com/kbukum/iocboot/version"
)

func newGreetCmd(c *cli) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "greet NAME...",
		Short: "Greet one or more people",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, g greeter.Greeter) error {
				for _, name := range args {
					msg, err := g.Greet(ctx, name, lang)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.out, msg)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", greeter.DefaultLanguage, "language of the greeting")
	return cmd
}

func newHistoryCmd(c *cli) *cobra.Command {
	var (
		page    query.Page
		asc     bool
		filters []string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded greetings",
		Example: `  greeter history
  greeter history --filter language=eq.fr --filter count=gte.2
  greeter history --sort name --asc --page 2 --size 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conds, err := query.ParseFilters(filters)
			if err != nil {
				return err
			}
			page.Desc = !asc
			return c.run(cmd, func(ctx context.Context, g greeter.Greeter) error {
				res, err := g.History(ctx, page, conds...)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tLANGUAGE\tCOUNT")
				for _, row := range res.Data {
					fmt.Fprintf(w, "%s\t%s\t%d\n", row.Name, row.Language, row.Count)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				p := res.Pagination
				fmt.Fprintf(c.out, "page %d/%d, %d total\n", p.Page, p.TotalPages, p.Total)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&page.Number, "page", 1, "page number")
	flags.IntVar(&page.Size, "size", query.DefaultPageSize, "page size")
	flags.StringVar(&page.SortBy, "sort", "count", "sort column")
	flags.BoolVar(&asc, "asc", false, "sort ascending")
	flags.StringArrayVarP(&filters, "filter", "f", nil, "filter as field=op.value, repeatable")
	return cmd
}

func newForgetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "forget NAME",
		Short: "Remove every greeting recorded for a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, g greeter.Greeter) error {
				n, err := g.Forget(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "forgot %d greeting(s) for %s\n", n, args[0])
				return nil
			})
		},
	}
}

func newBindingsCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "Show the modules and bindings the container was built from",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.newApp(cmd)
			if err != nil {
				return err
			}
			return app.RunTask(cmd.Context(), func(context.Context) error {
				ctr, err := app.Container()
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(c.out)
					enc.SetIndent("", "  ")
					return enc.Encode(ctr.Registrations())
				}
				for _, m := range app.Modules() {
					fmt.Fprintf(c.out, "module %s\n", m.Name)
				}
				w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "CONTRACT\tKIND\tLIFETIME\tOVERRIDES")
				for _, r := range ctr.Registrations() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.Contract, r.Kind, r.Lifetime, r.Overrides)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the bindings as JSON")
	return cmd
}

func newServeCmd(c *cli) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagnostics server until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.newApp(cmd, func(cfg *greeter.Config) {
				cfg.Diagnostics.Enabled = true
				if port > 0 {
					cfg.Diagnostics.Port = port
				}
			})
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "diagnostics port (default from config)")
	return cmd
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetVersionInfo()
			fmt.Fprintf(c.out, "%s %s (go %s)\n", serviceName, version.GetShortVersion(), info.GoVersion)
			return nil
		},
	}
}
