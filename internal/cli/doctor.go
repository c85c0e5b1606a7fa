package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ecruz165/circuitkit/internal/config"
	"github.com/ecruz165/circuitkit/internal/platform"
	"github.com/ecruz165/circuitkit/internal/scaffold"
	"github.com/ecruz165/circuitkit/internal/template"
	"github.com/ecruz165/circuitkit/internal/viewer"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the CircuitKit setup",
	Long:  `Check the workspace root, project template, image viewer and temp directory.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := &doctor{out: cmd.OutOrStdout()}
		d.checkConfigFile()
		d.checkWorkspaceRoot()
		d.checkTemplate()
		d.checkViewer()
		d.checkTempDir()
		if d.failed > 0 {
			fmt.Fprintf(d.out, "\n%d check(s) failed.\n", d.failed)
			return errReported
		}
		return nil
	},
}

type doctor struct {
	out    io.Writer
	failed int
}

func (d *doctor) ok(format string, a ...any) {
	fmt.Fprintf(d.out, "  %s %s\n", successStyle.Render("[ OK ]"), fmt.Sprintf(format, a...))
}

func (d *doctor) warn(format string, a ...any) {
	fmt.Fprintf(d.out, "  %s %s\n", warnStyle.Render("[WARN]"), fmt.Sprintf(format, a...))
}

func (d *doctor) fail(format string, a ...any) {
	d.failed++
	fmt.Fprintf(d.out, "  %s %s\n", errorStyle.Render("[FAIL]"), fmt.Sprintf(format, a...))
}

func (d *doctor) checkConfigFile() {
	fmt.Fprintln(d.out, "Config:")
	exists, err := platform.Exists(config.FilePath())
	switch {
	case err != nil:
		d.fail("cannot stat %s: %v", config.FilePath(), err)
	case exists:
		d.ok("%s", config.FilePath())
	default:
		d.ok("no config file, defaults in use")
	}
}

func (d *doctor) checkWorkspaceRoot() {
	fmt.Fprintln(d.out, "Workspace root:")
	root, err := config.WorkspaceRoot()
	if err != nil {
		d.fail("%v", err)
		return
	}
	info, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		d.ok("%s (created on first 'new')", root)
	case err != nil:
		d.fail("%s: %v", root, err)
	case !info.IsDir():
		d.fail("%s is not a directory", root)
	default:
		d.ok("%s", root)
	}
}

func (d *doctor) checkTemplate() {
	fmt.Fprintln(d.out, "Template:")
	dir, err := config.TemplateDir()
	if err != nil {
		d.fail("%v", err)
		return
	}
	fsys, label, err := template.Open(dir)
	if err != nil {
		d.fail("%v", err)
		return
	}
	m, err := template.LoadManifest(fsys)
	if err != nil {
		d.fail("%s: %v", label, err)
		return
	}
	if _, err := scaffold.NewMatcher(template.ExcludePatterns(m, config.ExcludePatterns()...)); err != nil {
		d.fail("%v", err)
		return
	}
	if err := m.CheckCompatible(buildVersion); err != nil {
		d.fail("%v", err)
		return
	}
	d.ok("%s", label)
}

func (d *doctor) checkViewer() {
	fmt.Fprintln(d.out, "Viewer:")
	v := viewer.New(config.Get(config.KeyViewer), logger)
	if !v.Enabled() {
		d.warn("display disabled; diagrams are saved or discarded without being shown")
		return
	}
	if err := v.Available(); err != nil {
		d.warn("%v", err)
		return
	}
	d.ok("%s", v.Name())
}

func (d *doctor) checkTempDir() {
	fmt.Fprintln(d.out, "Temp directory:")
	dir, err := config.ExpandHome(config.Get(config.KeyTempDir))
	if err != nil {
		d.fail("%v", err)
		return
	}
	f, err := os.CreateTemp(dir, "circuitkit-doctor-*")
	if err != nil {
		d.fail("cannot create files in %s: %v", displayTempDir(dir), err)
		return
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		d.warn("could not remove %s: %v", name, err)
		return
	}
	d.ok("%s", displayTempDir(dir))
}

func displayTempDir(dir string) string {
	if dir == "" {
		return os.TempDir()
	}
	return dir
}
