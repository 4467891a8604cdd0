package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hev/clockodo/internal/api"
	"github.com/hev/clockodo/internal/commands"
	"github.com/hev/clockodo/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:           "clockodo",
		Short:         "clocko:do time tracking CLI",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&commands.Debug, "debug", false, "Log API requests to stderr")

	root.AddCommand(commands.SetupCmd())
	root.AddCommand(commands.InitCmd())
	root.AddCommand(commands.ClockCmd())
	root.AddCommand(commands.LogCmd())
	root.AddCommand(commands.CustomersCmd())
	root.AddCommand(commands.ProjectsCmd())
	root.AddCommand(commands.ServicesCmd())
	root.AddCommand(commands.EntriesCmd())
	root.AddCommand(commands.WeeklyCmd())
	root.AddCommand(commands.BillableCmd())

	if err := root.Execute(); err != nil {
		switch {
		case api.IsUnauthorized(err):
			fmt.Fprintf(os.Stderr, "clocko:do rejected your credentials: %s\n", api.ErrorMessage(err))
			fmt.Fprintf(os.Stderr, "Check %s and %s, or run `clockodo setup`.\n", config.EnvAPIUser, config.EnvAPIToken)
		default:
			fmt.Fprintln(os.Stderr, "error:", err)
			if msg := api.ErrorMessage(err); msg != err.Error() {
				fmt.Fprintln(os.Stderr, "server said:", msg)
			}
		}
		os.Exit(1)
	}
}
