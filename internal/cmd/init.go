package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamancini/ffrelease/internal/config"
	"github.com/adamancini/ffrelease/internal/interactive"
	"github.com/adamancini/ffrelease/internal/templates"
)

// defaultTemplate is used when no template is given and stdin is not a terminal.
const defaultTemplate = "minimal"

func newInitCmd() *cobra.Command {
	var templateName string
	var outputPath string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an apps file from a template",
		Long: `Create an apps file that adds to or overrides the built-in apps.

Available templates:
  full     - Every field with its default
  minimal  - One extra app next to the built-in ones
  mirror   - Resolve Waterfox from a mirror repository

Examples:
  ffrelease init                          # Interactive mode
  ffrelease init --template=minimal       # Direct template selection
  ffrelease init --path ./apps.yaml       # Custom output location`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdin := cmd.InOrStdin()
			if templateName == "" && stdin == os.Stdin && !interactive.IsTerminal() {
				templateName = defaultTemplate
			}
			return runInit(stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), templateName, outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "", "Template name")
	cmd.Flags().StringVar(&outputPath, "path", "", "Output path for the apps file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing apps file")

	_ = cmd.RegisterFlagCompletionFunc("template", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var completions []string
		for _, name := range templates.List() {
			completions = append(completions, fmt.Sprintf("%s\t%s", name, templates.GetDescription(name)))
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runInit executes the init workflow.
func runInit(stdin io.Reader, stdout, stderr io.Writer, templateName, outputPath string, force bool) error {
	prompter := interactive.NewPrompterWithIO(stdin, stdout)

	askPath := outputPath == "" && !quiet
	if outputPath == "" {
		outputPath = config.DefaultAppsFilePath()
	}

	if templateName == "" {
		names := templates.List()
		idx, err := prompter.Choose("Select an apps file template:", names, templates.GetDescription)
		if err != nil {
			return err
		}
		templateName = names[idx]
	}

	tmpl, err := templates.Get(templateName)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}
	if _, err := config.Parse(tmpl.Name+".yaml", tmpl.Content); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	if !quiet {
		_, _ = fmt.Fprintf(stdout, "\nPreview of '%s' template:\n", tmpl.Name)
		_, _ = fmt.Fprintln(stdout, strings.Repeat("-", 40))
		_, _ = fmt.Fprint(stdout, string(tmpl.Content))
		_, _ = fmt.Fprintln(stdout, strings.Repeat("-", 40))
	}

	if askPath {
		answer, err := prompter.Ask("\nWhere should I create the apps file?", outputPath)
		if err != nil {
			return err
		}
		outputPath = answer
	}
	outputPath = expandHomePath(outputPath)

	if _, err := os.Stat(outputPath); err == nil && !force {
		_, _ = fmt.Fprintf(stderr, "apps file already exists at %s\n", outputPath)
		if !prompter.Confirm("Overwrite?") {
			_, _ = fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(outputPath), err)
	}
	if err := os.WriteFile(outputPath, tmpl.Content, 0644); err != nil {
		return fmt.Errorf("failed to write apps file: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "\nCreated %s\n", outputPath)
	_, _ = fmt.Fprintln(stdout, "\nNext steps:")
	_, _ = fmt.Fprintln(stdout, "  1. Edit the apps file to customize")
	_, _ = fmt.Fprintln(stdout, "  2. Run 'ffrelease apps' to review the registry")
	_, _ = fmt.Fprintln(stdout, "  3. Run 'ffrelease check' to resolve the latest releases")

	return nil
}

// expandHomePath expands a leading ~ to the user's home directory.
func expandHomePath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
