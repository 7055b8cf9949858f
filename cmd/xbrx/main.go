// xbrx extracts XBR IDL directive outlines from a reStructuredText tree and
// writes the result as JSON or Markdown.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/crossdocs/xbridl/internal/extractor"
	"github.com/crossdocs/xbridl/internal/pipeline"
	"github.com/crossdocs/xbridl/internal/render"
)

func main() {
	root := flag.String("root", ".", "Directory tree to scan")
	paths := flag.String("paths", "", "Comma-separated allow-list of file paths (optional)")
	format := flag.String("format", "json", "Output format: json or markdown")
	out := flag.String("out", "", "Output file (default stdout)")
	indent := flag.Int("indent", 4, "Indentation unit in spaces")
	markers := flag.String("markers", "", "Comma-separated directive markers (default \".. xbr:\")")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ex := extractor.New(extractor.Config{
		Markers:    splitList(*markers),
		IndentUnit: *indent,
	}, log, nil, nil)

	res, err := ex.Extract(*root, splitList(*paths))
	if err != nil {
		log.Error("extraction failed", "error", err)
		os.Exit(1)
	}
	for _, fe := range res.Errors {
		log.Warn("file error", "path", fe.Path, "error", fe.Err)
	}

	var output []byte
	switch *format {
	case "markdown", "md":
		output = []byte(render.Markdown(res))
	case "json":
		runID := pipeline.ContentHashHex([]byte(*root))[:20]
		data, err := json.MarshalIndent(render.FromResult(runID, *root, res), "", "  ")
		if err != nil {
			log.Error("encode failed", "error", err)
			os.Exit(1)
		}
		output = data
	default:
		fmt.Fprintf(os.Stderr, "unknown format: %s\n", *format)
		os.Exit(2)
	}

	if *out == "" {
		os.Stdout.Write(output)
		os.Stdout.Write([]byte("\n"))
	} else if err := os.WriteFile(*out, output, 0o644); err != nil {
		log.Error("write failed", "path", *out, "error", err)
		os.Exit(1)
	}

	if len(res.Errors) > 0 {
		os.Exit(1)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
