package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coaxialdolor/termai/internal/app"
	"github.com/coaxialdolor/termai/internal/domain"
)

func newIntegrationCommand(flags *rootFlags) *cobra.Command {
	var shellName string
	var force bool

	cmd := &cobra.Command{
		Use:   "integration",
		Short: "Manage the `ai` shell wrapper",
		Long: "The wrapper function captures termai's stdout and evaluates it, letting " +
			"confirmed stateful commands like cd and export take effect in your shell.",
	}
	cmd.PersistentFlags().StringVar(&shellName, "shell", "", "Target shell (bash or zsh; auto-detected when empty)")

	install := &cobra.Command{
		Use:   "install",
		Short: "Install the wrapper and source it from your rc file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.Build(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			defer container.Close()

			result, err := container.Installer.Install(shellName, force)
			if err != nil {
				return err
			}
			fmt.Printf("Installed %s integration.\n  script: %s\n  rc file: %s\n",
				result.Shell, result.ScriptPath, result.RCFile)
			if result.RCUpdated {
				fmt.Printf("Restart your shell or run: source %s\n", result.RCFile)
			}
			return nil
		},
	}
	install.Flags().BoolVar(&force, "force", false, "Rewrite the rc line even if present")

	uninstall := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the rc line (the script file is kept)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.Build(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			defer container.Close()

			result, err := container.Installer.Uninstall(shellName)
			if err != nil {
				return err
			}
			if result.RCUpdated {
				fmt.Printf("Removed integration from %s.\n", result.RCFile)
			} else {
				fmt.Println("Integration was not installed.")
			}
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show whether the wrapper is active",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.Build(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			defer container.Close()

			s := container.Installer.Status(shellName)
			if s.Error != "" {
				return fmt.Errorf("%s", s.Error)
			}
			fmt.Printf("shell: %s\nscript: %s (present: %v)\nrc line: %s (present: %v)\ninstalled: %v\n",
				s.Shell, s.ScriptPath, s.ScriptExists, s.RCFile, s.LinePresent, s.Installed())
			return nil
		},
	}

	cmd.AddCommand(install, uninstall, status)
	return cmd
}

func newHistoryCommand(flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent confirmation outcomes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.Build(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			defer container.Close()

			if container.History == nil {
				fmt.Println("History is disabled in the config.")
				return nil
			}
			records, err := container.History.Recent(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No history yet.")
				return nil
			}
			for _, rec := range records {
				line := fmt.Sprintf("%s  %-8s  %s",
					rec.Timestamp.Format("2006-01-02 15:04"), rec.Kind, rec.Command)
				if rec.Kind == domain.OutcomeExecuted && rec.ExitCode != 0 {
					line += fmt.Sprintf("  [exit %d]", rec.ExitCode)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.Build(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			defer container.Close()

			if container.History == nil {
				fmt.Println("History is disabled in the config.")
				return nil
			}
			if err := container.History.Clear(); err != nil {
				return err
			}
			fmt.Println("History cleared.")
			return nil
		},
	}
	cmd.AddCommand(clear)
	return cmd
}

func newConfigCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the resolved config file location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.Build(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			defer container.Close()
			fmt.Println(container.Loader.Path())
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the config file contents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.Build(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			defer container.Close()
			data, err := os.ReadFile(container.Loader.Path())
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}

	cmd.AddCommand(path, show)
	return cmd
}

func newDoctorCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose config, credentials, integration, and clipboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.Build(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			defer container.Close()

			report, err := container.Doctor.Run(cmd.Context())
			for _, check := range report.Checks {
				fmt.Printf("[%-5s] %s: %s\n", check.Status, check.Name, check.Details)
			}
			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the termai version",
		Run: func(*cobra.Command, []string) {
			fmt.Println("termai", Version)
		},
	}
}
