package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/ecruz165/circuitkit/internal/artifact"
	"github.com/ecruz165/circuitkit/internal/branding"
	"github.com/ecruz165/circuitkit/internal/config"
	"github.com/ecruz165/circuitkit/internal/diagram"
	"github.com/ecruz165/circuitkit/internal/prompt"
	"github.com/ecruz165/circuitkit/internal/viewer"
	"github.com/spf13/cobra"
)

const saveQuestion = "Would you like to save the circuit as a PNG file?"

var (
	drawFile      string
	drawOutputDir string
	drawScale     int
	drawNoView    bool
)

// newDisplayer builds the viewer for draw. Tests replace it.
var newDisplayer = func(command string) artifact.Displayer {
	return viewer.New(command, logger)
}

func init() {
	drawCmd.Flags().StringVarP(&drawFile, "file", "f", diagram.DefaultFile, "Circuit description to draw")
	drawCmd.Flags().StringVarP(&drawOutputDir, "output-dir", "o", "", "Directory for saved diagrams (default: assets_dir setting)")
	drawCmd.Flags().IntVar(&drawScale, "scale", 2, fmt.Sprintf("Pixel scale factor for the rendered image (1-%d)", diagram.MaxScale))
	drawCmd.Flags().BoolVar(&drawNoView, "no-view", false, "Do not open the diagram before asking to save it")
	rootCmd.AddCommand(drawCmd)
}

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw the project's circuit and optionally save it as PNG",
	Long: `Render circuit.yaml from the current project, show it in the image viewer,
then ask whether to keep it.

A kept diagram is written to <output-dir>/project_<YYYYMMDD_HHMMSS>_circuit.png.
A discarded one is deleted. Two saves within the same second share a name and
the later one replaces the earlier.`,
	Args: cobra.NoArgs,
	RunE: runDraw,
}

func runDraw(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if drawScale < 1 || drawScale > diagram.MaxScale {
		return fmt.Errorf("--scale must be between 1 and %d, got %d", diagram.MaxScale, drawScale)
	}

	c, err := diagram.LoadFile(drawFile)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s not found; run '%s draw' inside a project created with '%s new'",
			drawFile, branding.CLIName(), branding.CLIName())
	}
	if err != nil {
		return err
	}
	d := diagram.Render(c, drawScale)

	tempDir, err := config.ExpandHome(config.Get(config.KeyTempDir))
	if err != nil {
		return err
	}
	outputDir := drawOutputDir
	if outputDir == "" {
		outputDir = config.AssetsDir()
	}
	if outputDir, err = config.ExpandHome(outputDir); err != nil {
		return err
	}

	var display artifact.Displayer
	if !drawNoView {
		display = newDisplayer(config.Get(config.KeyViewer))
	}

	saver := artifact.NewSaver(artifact.Options{
		TempDir: tempDir,
		Display: display,
		Logger:  logger,
	})

	ask := prompt.New(cmd.InOrStdin(), out)
	outcome, err := saver.Save(d, outputDir, func() (bool, error) {
		return ask.AskYesNo(saveQuestion)
	})
	if outcome != nil && outcome.DisplayErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render(fmt.Sprintf("Warning: could not display the diagram: %v", outcome.DisplayErr)))
	}
	if err != nil {
		if errors.Is(err, prompt.ErrNoInput) {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "The circuit diagram was not saved.")
			return errReported
		}
		return err
	}

	switch outcome.State {
	case artifact.Persisted:
		rel := outcome.FinalPath
		if r, relErr := filepath.Rel(".", outcome.FinalPath); relErr == nil {
			rel = r
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Circuit saved to '%s'", rel)))
		fmt.Fprintln(out, mutedStyle.Render("  "+humanize.Bytes(uint64(outcome.Bytes))))
	case artifact.Discarded:
		fmt.Fprintln(out, "The circuit diagram was not saved.")
	}
	if outcome.CleanupErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render(fmt.Sprintf("Warning: %v", outcome.CleanupErr)))
	}
	return nil
}
