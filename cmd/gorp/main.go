// gorp is a roguelike engine on a simulated CRT terminal.
//
// Usage:
//
//	gorp                          - Play in a window
//	gorp --tty                    - Play in the current text terminal
//	gorp --say <text>             - Start headless and say something
//	gorp island --size N --seed S - Print a generated island
//
// Global flags:
//
//	--gamedata <dir>  - Gamedata directory (default: next to the binary, then ./gamedata, then built in)
//	--userdata <dir>  - Preferences and log directory (default: ~/.gorp)
//	--config <file>   - Engine config (default: ~/.gorp/config/engine.yml, then gamedata)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gorp-rogue/gorp/internal/app"
	"github.com/gorp-rogue/gorp/internal/guru"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

var (
	// Global flags
	flagGamedata string
	flagUserdata string
	flagConfig   string

	flagTTY bool
	flagSay string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gorp",
	Short: "GORP - a roguelike on a simulated CRT terminal",
	Long: `GORP opens a faux-terminal window with a title screen. Start a new game
to generate an island and explore it from the command line.

Keys:
  F1      toggle the CRT shader
  F4      toggle the curved CRT bezel
  F5      toggle automatic tile scaling
  F2/F3   shrink or grow the tiles
  F12     render speed test (title screen)

Examples:
  gorp
  gorp --tty
  gorp island --size 64 --seed 12345`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGame,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagGamedata, "gamedata", "", "Gamedata directory")
	rootCmd.PersistentFlags().StringVar(&flagUserdata, "userdata", "", "Directory for prefs.dat and log.txt")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Engine config file")

	rootCmd.Flags().BoolVar(&flagTTY, "tty", false, "Run in the current text terminal instead of a window")
	rootCmd.Flags().StringVar(&flagSay, "say", "", "Start headless, say the text and exit")

	rootCmd.AddCommand(islandCmd)
}

func runGame(cmd *cobra.Command, args []string) error {
	ctx, err := app.Open(app.Options{
		Version:  version,
		Gamedata: flagGamedata,
		Userdata: flagUserdata,
		Config:   flagConfig,
		Headless: flagSay != "",
		TTY:      flagTTY,
	})
	if err != nil {
		return err
	}
	defer ctx.Close()

	if flagSay != "" {
		ctx.Guru.Log("Headless mode", guru.Info, "say", flagSay)
		fmt.Println(flagSay)
		return nil
	}
	if err := ctx.Run(); err != nil {
		msg, code := guru.Describe(err)
		ctx.Guru.Log("Exiting after fatal error", guru.Error, "err", msg, "code", code)
		return err
	}
	return nil
}
