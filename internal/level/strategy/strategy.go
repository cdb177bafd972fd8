// Package strategy registers the built-in level assemblers. Import it for
// side effects:
//
//	import _ "github.com/vovakirdan/quiz-runner/internal/level/strategy"
package strategy

import (
	"io/fs"
	"os"

	"github.com/vovakirdan/quiz-runner/internal/config"
	"github.com/vovakirdan/quiz-runner/internal/level"
	"github.com/vovakirdan/quiz-runner/internal/registry"
	"github.com/vovakirdan/quiz-runner/levels"
)

// Strategy names accepted by level.strategy.
const (
	Procedural = "procedural"
	Authored   = "authored"
)

func init() {
	registry.Register(Procedural, "Endless generated landscape with difficulty-scaled hazards", newProcedural)
	registry.Register(Authored, "Handmade maps laid end to end", newAuthored)
}

func newProcedural(env registry.Env) (level.Assembler, error) {
	c := env.Config
	opts := level.DefaultProceduralOptions(c.Screen.Width, c.Screen.Height)
	if c.Level.Lookahead > 0 {
		opts.Lookahead = c.Level.Lookahead
	}
	if len(c.Level.HazardCodes) > 0 {
		opts.Landscape.HazardCodes = c.Level.HazardCodes
	}
	if c.Level.SafeColumns > 0 {
		opts.Landscape.SafeColumns = c.Level.SafeColumns
	}
	if c.Level.CloudChance > 0 {
		opts.Clouds.StartChance = c.Level.CloudChance
	}

	dm := config.NewDifficultyManager(c.Difficulty)
	base := c.Level.HazardChance
	opts.Landscape.HazardChance = func(segment int) float64 {
		return dm.HazardChance(base, segment)
	}
	return level.NewProcedural(opts, env.Seed)
}

func newAuthored(env registry.Env) (level.Assembler, error) {
	c := env.Config
	return level.NewAuthored(level.AuthoredOptions{
		GameH:      c.Screen.Height,
		Maps:       c.Level.Maps,
		FS:         MapsFS(env.Maps, c.Level.MapDir),
		Solid:      c.Level.Solid,
		StartInset: c.Screen.Width / 3,
	})
}

// MapsFS picks where authored maps are read from: an explicit filesystem,
// then dir when it exists on disk, then the maps built into the binary.
func MapsFS(explicit fs.FS, dir string) fs.FS {
	if explicit != nil {
		return explicit
	}
	if dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return os.DirFS(dir)
		}
	}
	return levels.FS
}
