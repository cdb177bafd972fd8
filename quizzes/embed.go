// Package quizzes embeds the sample quizzes shipped with the game.
package quizzes

import "embed"

// FS holds the sample quizzes. Files named after a 36 character game code
// are served by the development feed.
//
//go:embed *.json *.yaml
var FS embed.FS

// Demo is the quiz played when no source is given.
const Demo = "demo.yaml"
