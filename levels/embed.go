// Package levels embeds the authored segment maps shipped with the game.
package levels

import "embed"

// FS holds the shipped maps, addressed by file name.
//
//go:embed *.json *.yaml
var FS embed.FS
