package main

import (
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/quiz-runner/internal/level/formats"
	"github.com/vovakirdan/quiz-runner/internal/level/strategy"
	"github.com/vovakirdan/quiz-runner/internal/registry"
)

var flagMapDir string

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List level strategies and authored maps",
	Long: `Shows the registered level strategies and checks every authored map
the authored strategy can read. Maps come from --dir, then the configured
map_dir, then the maps built into the binary.`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagMapDir, "dir", "", "Directory of authored maps to check")
}

func runLevels(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitf("Error loading config: %v", err)
	}

	fmt.Println("Level strategies:")
	fmt.Println()
	maxIDLen := 2 // "ID" header
	strategies := registry.List()
	for _, s := range strategies {
		if len(s.ID) > maxIDLen {
			maxIDLen = len(s.ID)
		}
	}
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")
	for _, s := range strategies {
		marker := ""
		if s.ID == cfg.Level.Strategy {
			marker = "  (configured)"
		}
		fmt.Printf("  %-*s  %s%s\n", maxIDLen, s.ID, s.Description, marker)
	}

	dir := flagMapDir
	if dir == "" {
		dir = cfg.Level.MapDir
	}
	maps := strategy.MapsFS(nil, dir)

	fmt.Println()
	fmt.Println("Authored maps:")
	fmt.Println()
	entries, err := fs.ReadDir(maps, ".")
	if err != nil {
		exitf("Error reading maps: %v", err)
	}
	bad := 0
	for _, e := range entries {
		if e.IsDir() || !isMapFile(e.Name()) {
			continue
		}
		data, err := fs.ReadFile(maps, e.Name())
		if err == nil {
			var m *formats.Map
			if m, err = formats.Parse(e.Name(), data); err == nil {
				w, h := m.PixelSize()
				answers, hazards := 0, 0
				for _, o := range m.Objects {
					switch o.Type {
					case formats.ObjectAnswer:
						answers++
					case formats.ObjectHazard:
						hazards++
					}
				}
				fmt.Printf("  %-20s %3dx%-3d tiles  %4.0fx%-4.0f px  %d answers  %d hazards\n",
					e.Name(), m.Width, m.Height, w, h, answers, hazards)
				continue
			}
		}
		bad++
		fmt.Printf("  %-20s ERROR: %v\n", e.Name(), err)
	}
	if bad > 0 {
		os.Exit(1)
	}
}

func isMapFile(name string) bool {
	ext := path.Ext(name)
	for _, known := range formats.Extensions {
		if ext == known {
			return true
		}
	}
	return ext == ".tmj"
}
