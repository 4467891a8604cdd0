package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hev/clockodo/internal/api"
)

const idWidth = 8

// CustomersCmd returns the customers command.
func CustomersCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "customers",
		Short: "List customers with their IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCustomers(all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include inactive customers")

	return cmd
}

func runCustomers(all bool) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	filter := api.CustomerFilter{}
	if !all {
		filter.Active = api.Some(true)
	}

	fmt.Printf("%-*s%s\n", idWidth, "ID", "Name")
	fmt.Println(strings.Repeat("─", 40))

	n := 0
	for c, err := range client.IterCustomers(filter) {
		if err != nil {
			return err
		}
		fmt.Println(listLine(c.ID, c.Name, c.Active))
		n++
	}
	if n == 0 {
		fmt.Println("No customers found.")
	}
	return nil
}

func displayName(name string, active bool) string {
	if !active {
		return name + " (inactive)"
	}
	return name
}

func listLine(id int, name string, active bool) string {
	return fmt.Sprintf("%-*d%s", idWidth, id, displayName(name, active))
}
