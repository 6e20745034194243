package cmd

import (
	"github.com/msalah0e/ontomap/internal/layout"
	"github.com/msalah0e/ontomap/internal/ui"
	"github.com/spf13/cobra"
)

var layoutDescriptions = map[string]string{
	"circle":          "All ontologies on one ring",
	"center":          "First (or first highlighted) ontology in the middle, the rest around it",
	"grid":            "Rows and columns",
	"horizontal-tree": "Levels by mapping depth, left to right",
	"vertical-tree":   "Levels by mapping depth, top to bottom",
	"radial":          "Levels by mapping depth on rings around the roots",
}

func layoutsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List graph layouts",
		Run: func(cmd *cobra.Command, args []string) {
			ui.Banner("layouts")
			rows := make([][]string, 0, len(layout.Names()))
			for _, name := range layout.Names() {
				marker := ""
				if name == cfg.View.Layout {
					marker = ui.StatusIcon(true)
				}
				rows = append(rows, []string{name, layoutDescriptions[name], marker})
			}
			ui.Table([]string{"NAME", "DESCRIPTION", "DEFAULT"}, rows)
		},
	}
}
