package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorp-rogue/gorp/internal/procgen"
	"github.com/gorp-rogue/gorp/internal/terminal"
	"github.com/gorp-rogue/gorp/internal/world"
)

var (
	flagIslandSize int
	flagIslandSeed uint32
	flagNoMap      bool
)

var islandCmd = &cobra.Command{
	Use:   "island",
	Short: "Generate an island and print it",
	Long: `Generates an island heightmap without opening a window and prints it
in colour, followed by a summary of its sub-islands.

Examples:
  gorp island
  gorp island --size 64 --seed 12345
  gorp island --seed 7 --no-map`,
	Args: cobra.NoArgs,
	RunE: runIsland,
}

func init() {
	islandCmd.Flags().IntVar(&flagIslandSize, "size", 64, "Edge length in tiles")
	islandCmd.Flags().Uint32Var(&flagIslandSeed, "seed", 0, "Noise seed (0 = random)")
	islandCmd.Flags().BoolVar(&flagNoMap, "no-map", false, "Print only the summary")
}

func runIsland(cmd *cobra.Command, args []string) error {
	isl, err := procgen.Generate(flagIslandSize, flagIslandSeed)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !flagNoMap {
		fmt.Fprint(out, renderIsland(isl.Heightmap))
	}
	fmt.Fprint(out, islandSummary(isl))
	return nil
}

var terrainStyles = map[world.Terrain]lipgloss.Style{}

func terrainStyle(t world.Terrain) (lipgloss.Style, rune) {
	g, col := world.Visual(t)
	s, ok := terrainStyles[t]
	if !ok {
		c := col.RGBA()
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)))
		terrainStyles[t] = s
	}
	return s, terminal.CP437ToUnicode[g]
}

// renderIsland draws the heightmap one line per row, styling runs of the
// same terrain together.
func renderIsland(hm *procgen.Heightmap) string {
	var b strings.Builder
	for y := 0; y < hm.Size; y++ {
		var run strings.Builder
		current := world.Classify(hm.At(0, y))
		flush := func() {
			s, _ := terrainStyle(current)
			b.WriteString(s.Render(run.String()))
			run.Reset()
		}
		for x := 0; x < hm.Size; x++ {
			t := world.Classify(hm.At(x, y))
			if t != current {
				flush()
				current = t
			}
			_, r := terrainStyle(t)
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func islandSummary(isl *procgen.Island) string {
	subs := isl.SubIslands
	var b strings.Builder
	fmt.Fprintf(&b, "Island seed %d, %dx%d tiles, %d sub-islands\n",
		isl.Seed, isl.Heightmap.Size, isl.Heightmap.Size, len(subs.Regions))
	largest := subs.Largest()
	for id, region := range subs.Regions {
		mark := ""
		if id == largest {
			mark = " (largest)"
		}
		fmt.Fprintf(&b, "  #%d: %d tiles from (%d,%d)%s\n", id, len(region), region[0].X, region[0].Y, mark)
	}
	return b.String()
}
