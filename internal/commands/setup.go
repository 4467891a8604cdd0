package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hev/clockodo/internal/api"
	"github.com/hev/clockodo/internal/config"
)

// SetupCmd returns the setup command.
func SetupCmd() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure your clocko:do API user and key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(language)
		},
	}

	cmd.Flags().StringVar(&language, "language", "en", "Language for server messages (Accept-Language)")

	return cmd
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func runSetup(language string) error {
	reader := bufio.NewReader(os.Stdin)

	user, err := prompt(reader, "Enter your clocko:do login e-mail: ")
	if err != nil {
		return fmt.Errorf("failed to read e-mail: %w", err)
	}
	token, err := prompt(reader, "Enter your clocko:do API key: ")
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	if user == "" || token == "" {
		return fmt.Errorf("both e-mail and API key are required")
	}

	fmt.Println("Verifying credentials...")
	http := api.NewHttpClient(user, token)
	http.SetLanguage(language)
	http.SetDebug(Debug)
	running, err := api.New(http).CurrentClock()
	if err != nil {
		if api.IsUnauthorized(err) {
			return fmt.Errorf("invalid credentials: %s", api.ErrorMessage(err))
		}
		return fmt.Errorf("could not reach clocko:do: %w", err)
	}

	cfg := &config.Config{
		APIUser:  user,
		APIToken: token,
		Language: language,
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("Setup complete.")
	fmt.Printf("  User:    %s\n", user)
	if running != nil {
		fmt.Printf("  Clock:   %s\n", running)
	}
	fmt.Printf("  Config:  %s\n", config.Path())
	return nil
}
