package commands

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hev/clockodo/internal/api"
	"github.com/hev/clockodo/internal/config"
)

// InitCmd returns the init command.
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize .clockodo.json in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func runInit() error {
	client, err := newClient()
	if err != nil {
		return err
	}
	names := client.Names()
	reader := bufio.NewReader(os.Stdin)

	// Pick customer
	customers, err := names.Customers()
	if err != nil {
		return fmt.Errorf("failed to list customers: %w", err)
	}
	if len(customers) == 0 {
		return fmt.Errorf("no active customers found")
	}
	customerID, err := pickFromMap(reader, "Customer", nameMap(customers, func(c *api.Customer) (int, string) { return c.ID, c.Name }))
	if err != nil {
		return err
	}

	// Pick project
	projects, err := names.Projects(customerID)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	var projectID int
	if len(projects) > 0 {
		projectID, err = pickFromMap(reader, "Project", nameMap(projects, func(p *api.Project) (int, string) { return p.ID, p.Name }))
		if err != nil {
			return err
		}
	} else {
		fmt.Println("No projects found for this customer, skipping.")
	}

	// Pick service
	services, err := names.Services()
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}
	var serviceID int
	if len(services) > 0 {
		serviceID, err = pickFromMap(reader, "Service", nameMap(services, func(s *api.Service) (int, string) { return s.ID, s.Name }))
		if err != nil {
			return err
		}
	} else {
		fmt.Println("No services found, skipping.")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	pc := &config.ProjectConfig{
		CustomerID: customerID,
		ProjectID:  projectID,
		ServiceID:  serviceID,
	}
	if err := config.SaveProjectConfig(cwd, pc); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.ProjectConfigFile, err)
	}

	fmt.Printf("Wrote %s\n", config.ProjectConfigFile)
	return nil
}

func nameMap[T any](items []T, idName func(T) (int, string)) map[int]string {
	m := make(map[int]string, len(items))
	for _, v := range items {
		id, name := idName(v)
		m[id] = name
	}
	return m
}

type mapEntry struct {
	id   int
	name string
}

func pickFromMap(reader *bufio.Reader, label string, items map[int]string) (int, error) {
	var entries []mapEntry
	for id, name := range items {
		entries = append(entries, mapEntry{id, name})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].name < entries[j].name
	})

	fmt.Printf("\n%s:\n", label)
	for i, e := range entries {
		fmt.Printf("  %d) %s (ID: %d)\n", i+1, e.name, e.id)
	}

	for {
		fmt.Printf("Select %s [1-%d]: ", strings.ToLower(label), len(entries))
		input, err := reader.ReadString('\n')
		if err != nil {
			return 0, err
		}
		input = strings.TrimSpace(input)
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(entries) {
			fmt.Println("Invalid selection, try again.")
			continue
		}
		selected := entries[n-1]
		fmt.Printf("Selected: %s\n", selected.name)
		return selected.id, nil
	}
}
