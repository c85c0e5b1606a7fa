package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ecruz165/circuitkit/internal/config"
	"github.com/ecruz165/circuitkit/internal/prompt"
	"github.com/ecruz165/circuitkit/internal/scaffold"
	"github.com/ecruz165/circuitkit/internal/template"
	"github.com/spf13/cobra"
)

var newTemplateDir string

func init() {
	newCmd.Flags().StringVarP(&newTemplateDir, "template", "t", "", "Template directory (default: template_dir setting, else the bundled template)")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new circuit project",
	Long: `Create a new project under the workspace root by copying the project template.

The name is asked for when not given. An existing project directory is never
overwritten. Files matching an exclusion pattern (virtualenvs, caches, VCS
metadata, plus the exclude setting and the template's own list) are not copied.

Examples:
  circuitkit new lowpass
  circuitkit new lowpass --template ~/templates/circuit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		answer, err := prompt.New(cmd.InOrStdin(), out).AskLine("Enter the name of the new project: ")
		if err != nil && !errors.Is(err, prompt.ErrNoInput) {
			return err
		}
		name = answer
	}
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Fprintln(out, errorStyle.Render("Error: Project name cannot be empty."))
		return errReported
	}

	root, err := config.WorkspaceRoot()
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}

	dir := newTemplateDir
	if dir == "" {
		if dir, err = config.TemplateDir(); err != nil {
			return fmt.Errorf("resolving template directory: %w", err)
		}
	} else if dir, err = config.ExpandHome(dir); err != nil {
		return err
	}

	fsys, label, err := template.Open(dir)
	if err != nil {
		return err
	}
	manifest, err := template.LoadManifest(fsys)
	if err != nil {
		return fmt.Errorf("loading template manifest from %s: %w", label, err)
	}

	s := scaffold.New(scaffold.Options{
		Root:          root,
		Template:      fsys,
		TemplateLabel: label,
		Manifest:      manifest,
		CLIVersion:    buildVersion,
		Exclude:       template.ExcludePatterns(manifest, config.ExcludePatterns()...),
		Logger:        logger,
	})

	result, err := s.CreateProject(name)
	if err != nil {
		if errors.Is(err, scaffold.ErrAlreadyExists) {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
			fmt.Fprintln(out, "Choose another name or remove the existing directory.")
			return errReported
		}
		return err
	}

	printCreated(out, result)

	steps, err := template.RenderNextSteps(manifest, template.StepData{Name: result.Name, Path: result.Path})
	if err != nil {
		return fmt.Errorf("rendering next steps: %w", err)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, titleStyle.Render("Next Steps"))
	for i, step := range steps {
		fmt.Fprintf(out, "  %d. %s\n", i+1, step)
	}
	return nil
}

func printCreated(out io.Writer, r *scaffold.Result) {
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Project '%s' created successfully at %s", r.Name, pathStyle.Render(r.Path))))
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("  %s, %s in %s",
		pluralize(len(r.Files), "file"),
		humanize.Bytes(uint64(r.Bytes)),
		pluralize(r.Dirs+1, "directory"))))
	if len(r.Skipped) > 0 {
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("  excluded: %v", r.Skipped)))
	}
	if len(r.Ignored) > 0 {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("  not copied (links or special files): %v", r.Ignored)))
	}
}
