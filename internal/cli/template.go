package cli

import (
	"fmt"

	"github.com/ecruz165/circuitkit/internal/config"
	"github.com/ecruz165/circuitkit/internal/scaffold"
	"github.com/ecruz165/circuitkit/internal/template"
	"github.com/spf13/cobra"
)

func init() {
	templateCmd.AddCommand(templateValidateCmd)
	rootCmd.AddCommand(templateCmd)
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect project templates",
}

var templateValidateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate a template directory and its manifest",
	Long: `Check that a template directory can be used by 'circuitkit new'.

Without an argument the configured template_dir is checked, or the bundled
template when none is set. The manifest (` + template.ManifestFile + `) is
optional; when present it must match the template schema, its exclude
patterns must be valid, and its version requirement must accept this build.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		var dir string
		var err error
		if len(args) == 1 {
			dir, err = config.ExpandHome(args[0])
		} else {
			dir, err = config.TemplateDir()
		}
		if err != nil {
			return err
		}

		fsys, label, err := template.Open(dir)
		if err != nil {
			return err
		}
		m, err := template.LoadManifest(fsys)
		if err != nil {
			return err
		}
		if _, err := scaffold.NewMatcher(template.ExcludePatterns(m, config.ExcludePatterns()...)); err != nil {
			return err
		}
		if err := m.CheckCompatible(buildVersion); err != nil {
			return err
		}

		fmt.Fprintf(out, "%s %s\n", successStyle.Render("[ OK ]"), label)
		if m == nil {
			fmt.Fprintf(out, "  no %s, defaults apply\n", template.ManifestFile)
			return nil
		}
		fmt.Fprintf(out, "  name:    %s\n", m.Name)
		if m.Version != "" {
			fmt.Fprintf(out, "  version: %s\n", m.Version)
		}
		if m.Requires != "" {
			fmt.Fprintf(out, "  requires: %s\n", m.Requires)
		}
		if len(m.Exclude) > 0 {
			fmt.Fprintf(out, "  exclude: %v\n", m.Exclude)
		}
		return nil
	},
}
