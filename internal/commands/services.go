package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ServicesCmd returns the services command.
func ServicesCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "services",
		Short: "List services with their IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServices(all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include inactive services")

	return cmd
}

func runServices(all bool) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	fmt.Printf("%-*s%s\n", idWidth, "ID", "Name")
	fmt.Println(strings.Repeat("─", 40))

	n := 0
	for s, err := range client.IterServices() {
		if err != nil {
			return err
		}
		if !s.Active && !all {
			continue
		}
		fmt.Println(listLine(s.ID, s.Name, s.Active))
		n++
	}
	if n == 0 {
		fmt.Println("No services found.")
	}
	return nil
}
