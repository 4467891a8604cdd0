package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hev/clockodo/internal/api"
)

// ProjectsCmd returns the projects command.
func ProjectsCmd() *cobra.Command {
	var (
		customer string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects with their IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjects(customer, all)
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Only projects of this customer (name or ID)")
	cmd.Flags().BoolVar(&all, "all", false, "Include inactive projects")

	return cmd
}

func runProjects(customer string, all bool) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	filter := api.ProjectFilter{Customer: optRef(customer)}
	if !all {
		filter.Active = api.Some(true)
	}

	fmt.Printf("%-*s%-*s%s\n", idWidth, "ID", idWidth+2, "Customer", "Name")
	fmt.Println(strings.Repeat("─", 50))

	n := 0
	for p, err := range client.IterProjects(filter) {
		if err != nil {
			return err
		}
		fmt.Printf("%-*d%-*d%s\n", idWidth, p.ID, idWidth+2, p.CustomerID, displayName(p.Name, p.Active))
		n++
	}
	if n == 0 {
		fmt.Println("No projects found.")
	}
	return nil
}
