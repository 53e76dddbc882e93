// Package assets embeds the default gamedata tree so the game runs without
// an installed data directory.
package assets

import "embed"

// Gamedata holds the files under gamedata/, rooted at "gamedata".
//
//go:embed gamedata
var Gamedata embed.FS
