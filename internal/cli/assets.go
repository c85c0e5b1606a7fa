package cli

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ecruz165/circuitkit/internal/artifact"
	"github.com/ecruz165/circuitkit/internal/config"
	"github.com/spf13/cobra"
)

var assetsDir string

func init() {
	assetsCmd.Flags().StringVarP(&assetsDir, "output-dir", "o", "", "Directory to list (default: assets_dir setting)")
	rootCmd.AddCommand(assetsCmd)
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List saved circuit diagrams, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		dir := assetsDir
		if dir == "" {
			dir = config.AssetsDir()
		}
		dir, err := config.ExpandHome(dir)
		if err != nil {
			return err
		}

		saved, err := listSaved(dir)
		if err != nil {
			return err
		}
		if len(saved) == 0 {
			fmt.Fprintf(out, "No saved diagrams in %s.\n", dir)
			return nil
		}
		for _, s := range saved {
			fmt.Fprintf(out, "%-40s %8s  %s\n", s.name, humanize.Bytes(uint64(s.size)), mutedStyle.Render(humanize.Time(s.at)))
		}
		return nil
	},
}

type savedDiagram struct {
	name string
	size int64
	at   time.Time
}

// listSaved returns the files in dir named like saved diagrams. A missing dir
// has none.
func listSaved(dir string) ([]savedDiagram, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var saved []savedDiagram
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		at, ok := artifact.ParseFilename(e.Name(), time.Local)
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		saved = append(saved, savedDiagram{name: e.Name(), size: info.Size(), at: at})
	}
	sort.Slice(saved, func(i, j int) bool { return saved[i].at.After(saved[j].at) })
	return saved, nil
}
