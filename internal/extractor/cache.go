package extractor

import (
	"io/fs"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/crossdocs/xbridl/internal/outline"
)

// fileCache memoizes per-file extraction results keyed by path, invalidated
// by mtime or size changes. It makes targeted re-extraction of large doc
// trees cheap when most files are untouched.
type fileCache struct {
	lru *lru.Cache[string, cacheEntry]
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	trees   []*outline.Tree
}

// newFileCache returns a cache holding up to size entries, or a disabled
// cache when size <= 0.
func newFileCache(size int) *fileCache {
	if size <= 0 {
		return &fileCache{}
	}
	c, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return &fileCache{}
	}
	return &fileCache{lru: c}
}

func (c *fileCache) get(path string, info fs.FileInfo) ([]*outline.Tree, bool) {
	if c.lru == nil {
		return nil, false
	}
	ent, ok := c.lru.Get(path)
	if !ok || !ent.modTime.Equal(info.ModTime()) || ent.size != info.Size() {
		return nil, false
	}
	return ent.trees, true
}

func (c *fileCache) put(path string, info fs.FileInfo, trees []*outline.Tree) {
	if c.lru == nil {
		return
	}
	c.lru.Add(path, cacheEntry{
		modTime: info.ModTime(),
		size:    info.Size(),
		trees:   trees,
	})
}
