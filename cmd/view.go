package cmd

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/msalah0e/ontomap/internal/expand"
	"github.com/msalah0e/ontomap/internal/layout"
	"github.com/msalah0e/ontomap/internal/service"
	"github.com/msalah0e/ontomap/internal/session"
	"github.com/msalah0e/ontomap/internal/ui"
	"github.com/spf13/cobra"
)

func viewCmd() *cobra.Command {
	var (
		fixturePath string
		out         string
		format      string
		layoutName  string
		highlight   []string
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Render the mapping graph of a set of ontologies",
		Long: "Places every ontology of the fixture in a graph, loads the mapping counts\n" +
			"between them with one batched query and writes the graph as SVG or HTML.",
		Run: func(cmd *cobra.Command, args []string) {
			f, err := service.LoadFixture(fixturePath)
			if err != nil {
				ui.Bad.Printf("  Failed to load fixture: %v\n", err)
				os.Exit(1)
			}
			kind, err := outputFormat(out, format)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			if layoutName == "" {
				layoutName = cfg.View.Layout
			}
			l, err := layout.Get(layoutName)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}

			svc, source, err := mappingService(cfg, f, offlineMode, nil, logger)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			sess, err := loadSession(cfg, f, nil, logger)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			for _, id := range highlight {
				if err := sess.Highlight(id); err != nil {
					ui.Warn.Printf("  %s %v\n", ui.WarnIcon(), err)
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Service.Timeout.Duration+time.Second)
			defer cancel()
			outcome, stats, err := expandSession(ctx, sess, expand.NewMappingExpander(svc, errorSink(logger),
				expand.WithLogger(logger)))
			if err != nil && outcome != expand.Failed {
				ui.Bad.Printf("  Mapping query did not finish: %v\n", err)
				os.Exit(1)
			}
			logger.Info("mappings loaded", "source", source, "outcome", outcome.String(),
				"merged", stats.Merged, "skipped", stats.Skipped)

			if layoutName == "center" && len(highlight) > 0 {
				l = layout.Centered{Focus: highlight[0]}
			}
			sess.ApplyLayout(l)

			var w io.Writer = os.Stdout
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					ui.Bad.Printf("  Failed to create %s: %v\n", out, err)
					os.Exit(1)
				}
				defer file.Close()
				w = file
			}
			if err := render(w, sess, kind); err != nil {
				ui.Bad.Printf("  Failed to write graph: %v\n", err)
				os.Exit(1)
			}
			if out != "" {
				ui.Good.Printf("  %s Wrote %s (%d ontologies, %d mapping arcs)\n", ui.StatusIcon(true), out,
					sess.Graph().NodeCount(), sess.Graph().ArcCount())
				fmt.Printf("  %s Mappings %s: %s merged, %s skipped\n", ui.OutcomeIcon(outcome.String()), outcome,
					ui.Count(stats.Merged), ui.Count(stats.Skipped))
			}
		},
	}

	cmd.Flags().StringVarP(&fixturePath, "fixture", "f", "", "YAML file listing the ontologies (and mappings when offline)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: svg or html (default from --out extension)")
	cmd.Flags().StringVar(&layoutName, "layout", "", "Layout (see `ontomap layouts`)")
	cmd.Flags().StringSliceVar(&highlight, "highlight", nil, "Ontology ids drawn highlighted")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

// expandSession runs one bulk expansion inline and waits for it. Nothing
// else touches the session meanwhile.
func expandSession(ctx context.Context, sess *session.Session, e *expand.MappingExpander) (expand.Outcome, expand.Stats, error) {
	req, err := sess.Expand(ctx, e)
	if err != nil {
		return expand.Pending, expand.Stats{}, err
	}
	return req.Wait(ctx)
}

const (
	formatSVG  = "svg"
	formatHTML = "html"
)

// outputFormat resolves the --format flag, falling back to the extension
// of the output path.
func outputFormat(out, format string) (string, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(out)) {
		case ".html", ".htm":
			return formatHTML, nil
		default:
			return formatSVG, nil
		}
	}
	switch f := strings.ToLower(format); f {
	case formatSVG, formatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want svg or html)", format)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{margin:0;background:#fafafa;font-family:-apple-system,system-ui,sans-serif}
header{padding:12px 20px;color:#333;border-bottom:1px solid #ddd}
header span{color:#888;margin-left:8px;font-size:13px}
main{overflow:auto}
</style>
</head>
<body>
<header>{{.Title}}<span>{{.Nodes}} ontologies, {{.Arcs}} mapping arcs</span></header>
<main>
{{.SVG}}
</main>
</body>
</html>
`))

type page struct {
	Title string
	Nodes int
	Arcs  int
	SVG   template.HTML
}

// render writes the session graph as SVG or as an HTML page around it.
func render(w io.Writer, sess *session.Session, kind string) error {
	if kind == formatSVG {
		return sess.WriteSVG(w)
	}
	var buf bytes.Buffer
	if err := sess.WriteSVG(&buf); err != nil {
		return err
	}
	return pageTemplate.Execute(w, page{
		Title: "ontomap",
		Nodes: sess.Graph().NodeCount(),
		Arcs:  sess.Graph().ArcCount(),
		SVG:   template.HTML(buf.String()),
	})
}
