package extractor

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crossdocs/xbridl/internal/observe"
	"github.com/crossdocs/xbridl/internal/outline"
	"github.com/crossdocs/xbridl/internal/scanner"
)

// DefaultExtensions lists the document extensions visited by the walker.
var DefaultExtensions = []string{".rst"}

// Config controls extraction behavior.
type Config struct {
	Extensions []string // File extensions to visit. Empty means DefaultExtensions.
	Markers    []string // Directive line prefixes. Empty means scanner.DefaultMarkers.
	IndentUnit int      // Spaces per outline level. Zero means outline.DefaultIndentUnit.
	CacheSize  int      // Entries in the per-file result cache. Zero disables caching.
}

// FileError records a file the walker could not fully process. The walk
// continues past it.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// Result aggregates one extraction run. Files maps each source path to the
// trees of its directive blocks, in file order; paths yielding zero blocks
// are absent.
type Result struct {
	Files  map[string][]*outline.Tree
	Errors []FileError
}

// BlockCount returns the total number of block trees across all files.
func (r *Result) BlockCount() int {
	n := 0
	for _, trees := range r.Files {
		n += len(trees)
	}
	return n
}

// NodeCount returns the total number of outline nodes, block roots included.
func (r *Result) NodeCount() int {
	n := 0
	for _, trees := range r.Files {
		for _, t := range trees {
			n += len(t.Nodes)
		}
	}
	return n
}

// Extractor walks a directory tree, scans matching files for directive
// blocks, and builds their outline trees. Each call owns its accumulator;
// nothing is shared between runs except the read-only file cache.
type Extractor struct {
	scanner *scanner.Scanner
	builder *outline.Builder
	exts    map[string]bool
	cache   *fileCache
	log     *slog.Logger
	metrics *observe.Metrics
	stats   *observe.ScanStats
}

// New creates an Extractor. log must be non-nil; metrics and stats may be
// nil when the caller does not collect them.
func New(cfg Config, log *slog.Logger, metrics *observe.Metrics, stats *observe.ScanStats) *Extractor {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extSet := make(map[string]bool, len(exts))
	for _, ext := range exts {
		extSet[strings.ToLower(ext)] = true
	}

	return &Extractor{
		scanner: scanner.New(cfg.Markers...),
		builder: &outline.Builder{IndentUnit: cfg.IndentUnit},
		exts:    extSet,
		cache:   newFileCache(cfg.CacheSize),
		log:     log,
		metrics: metrics,
		stats:   stats,
	}
}

// Extract walks root and builds outline trees for every directive block in
// every matching file. When allow is non-nil, only the listed paths are
// visited. Unreadable files and malformed blocks become Result.Errors
// entries; the walk always continues. The returned error covers only a
// failure to walk root itself.
func (e *Extractor) Extract(root string, allow []string) (*Result, error) {
	var allowSet map[string]bool
	if allow != nil {
		allowSet = make(map[string]bool, len(allow))
		for _, p := range allow {
			allowSet[filepath.Clean(p)] = true
		}
	}

	res := &Result{Files: make(map[string][]*outline.Tree)}
	start := time.Now()

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			res.Errors = append(res.Errors, FileError{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !e.exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if allowSet != nil && !allowSet[filepath.Clean(path)] {
			return nil
		}

		trees, ferr := e.ExtractFile(path)
		if ferr != nil {
			res.Errors = append(res.Errors, FileError{Path: path, Err: ferr})
		}
		if len(trees) > 0 {
			res.Files[path] = trees
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	elapsed := time.Since(start)
	e.metrics.ObserveScan(elapsed)
	if e.stats != nil {
		e.stats.Record(elapsed)
	}
	e.log.Debug("extraction run finished",
		"root", root,
		"files", len(res.Files),
		"blocks", res.BlockCount(),
		"errors", len(res.Errors),
		"duration_ms", elapsed.Milliseconds(),
	)
	return res, nil
}

// ExtractFile scans a single file and builds a tree per directive block.
// Successfully parsed blocks are returned even when later blocks in the same
// file fail; failures are joined into the returned error.
func (e *Extractor) ExtractFile(path string) ([]*outline.Tree, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if trees, ok := e.cache.get(path, info); ok {
		e.metrics.IncCacheHits()
		return trees, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	e.metrics.IncFilesScanned()

	var trees []*outline.Tree
	var errs []error
	for _, blk := range e.scanner.Scan(string(data)) {
		if _, ok := scanner.ParseDirective(blk.Lines[0]); !ok {
			// Loosely validated: an unrecognized declaration is worth a
			// warning but still gets an outline.
			e.log.Warn("unrecognized directive declaration",
				"file", path,
				"line", blk.StartLine+1,
				"text", blk.Lines[0],
			)
		}

		tree, err := e.builder.Build(blk.Lines, blk.StartLine)
		if err != nil {
			var perr *outline.ParseError
			if errors.As(err, &perr) {
				perr.File = path
			}
			errs = append(errs, err)
			e.metrics.IncParseErrors()
			continue
		}
		trees = append(trees, tree)
		e.metrics.IncBlocksExtracted()
		e.metrics.AddNodesBuilt(len(tree.Nodes))
	}

	// Only fully clean files are cached, so a retry after a fix re-parses.
	if len(errs) == 0 {
		e.cache.put(path, info, trees)
	}
	return trees, errors.Join(errs...)
}
