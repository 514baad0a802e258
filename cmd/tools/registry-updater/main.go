// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"cockpit-fit-workers/internal/common/validation"
	"cockpit-fit-workers/pkg/registry"
)

var registryPath string

var rootCmd = &cobra.Command{
	Use:          "registry-updater",
	Short:        "Inspect and maintain the worker activity registry",
	SilenceUsage: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check activity ids, task types and input schemas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := validateRegistry(reg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered activities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DOMAIN\tTASK TYPE\tID\tSTATUS\tVERSION\tTIMEOUT\tRETRIES")
		for _, a := range reg.Activities {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n", a.Domain(), a.TaskType, a.ID, a.ImplementationStatus, a.Version, a.Timeout, a.Retries)
		}
		return w.Flush()
	},
}

var (
	updateTaskType string
	updateField    string
	updateValue    string
)

var updateCmd = &cobra.Command{
	Use:     "update",
	Short:   "Update one field of an activity",
	Example: "  registry-updater update --task-type project-cockpit --field status --value implemented",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := updateActivity(reg, updateTaskType, updateField, updateValue); err != nil {
			return err
		}
		reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		if err := saveRegistry(reg, registryPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s = %s\n", updateTaskType, updateField, updateValue)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&registryPath, "path", "p", "pkg/registry/activities.json", "path to the registry file")

	updateCmd.Flags().StringVar(&updateTaskType, "task-type", "", "task type of the activity")
	updateCmd.Flags().StringVar(&updateField, "field", "", "field to update (status, version, displayName, description, timeout, retries)")
	updateCmd.Flags().StringVar(&updateValue, "value", "", "new value")
	_ = updateCmd.MarkFlagRequired("task-type")
	_ = updateCmd.MarkFlagRequired("field")
	_ = updateCmd.MarkFlagRequired("value")

	rootCmd.AddCommand(validateCmd, listCmd, updateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// validateRegistry runs the structural checks and compiles every input schema
// the way the workers do at startup.
func validateRegistry(reg *registry.ActivityRegistry) error {
	if len(reg.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}
	if errs := reg.Validate(); len(errs) > 0 {
		return fmt.Errorf("registry has %d problems, first: %w", len(errs), errs[0])
	}
	for _, a := range reg.Activities {
		if a.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: displayName", a.ID)
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				return fmt.Errorf("activity %s: invalid timeout %q", a.ID, a.Timeout)
			}
		}
	}
	if _, err := validation.NewValidator(reg); err != nil {
		return err
	}
	return nil
}

func updateActivity(reg *registry.ActivityRegistry, taskType, field, value string) error {
	a, ok := reg.Find(taskType)
	if !ok {
		return fmt.Errorf("activity with task type %s not found", taskType)
	}

	switch field {
	case "status":
		status := registry.Status(value)
		if !status.Valid() {
			return fmt.Errorf("invalid status value: %s", value)
		}
		a.ImplementationStatus = status
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

func saveRegistry(reg *registry.ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
