package walker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alestack/sgrep/internal/applog"
	"github.com/alestack/sgrep/internal/config"
	"github.com/alestack/sgrep/internal/ignore"
	"github.com/alestack/sgrep/internal/matcher"
	"github.com/alestack/sgrep/internal/output"
)

// WalkSequential is the single-threaded fallback named in spec §9: a plain
// recursive walk with no deque, no worker goroutines, and no stealing.
// Useful for Jobs == 1 (where the deque machinery buys nothing) and for
// reproducing a search deterministically while debugging.
func WalkSequential(cfg config.Resolved, ignores *ignore.Matcher, m *matcher.Matcher, sink *output.Sink, log *applog.Logger) {
	var globs *ignore.Matcher
	if len(cfg.Globs) > 0 {
		globs = buildGlobFilter(cfg.Globs)
	}
	for _, root := range cfg.Roots {
		walkOne(cfg, ignores, globs, m, sink, log, root, "", 0)
	}
}

func walkOne(cfg config.Resolved, ignores, globs *ignore.Matcher, m *matcher.Matcher, sink *output.Sink, log *applog.Logger, fullPath, relPath string, depth int) {
	info, err := os.Lstat(fullPath)
	if err != nil {
		log.Warn("cannot stat %s: %v", fullPath, err)
		return
	}

	if !info.IsDir() {
		if info.Mode().IsRegular() {
			scanOneFile(m, sink, log, fullPath, relPath, info.Size())
		}
		return
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		log.Warn("cannot read directory %s: %v", fullPath, err)
		return
	}

	if ignores != nil {
		for _, e := range entries {
			if e.Name() == ".gitignore" {
				if content, rerr := os.ReadFile(filepath.Join(fullPath, e.Name())); rerr == nil {
					ignores.AddFile(relPath, content)
				}
				break
			}
		}
	}

	for _, e := range entries {
		name := e.Name()
		if !cfg.Hidden && strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() && alwaysSkipDirs[name] {
			continue
		}

		childRel := joinRel(relPath, name)
		childFull := filepath.Join(fullPath, name)
		isDir := e.IsDir()

		if ignores != nil && ignores.IsIgnored(childRel, isDir) {
			continue
		}
		if isDir {
			nextDepth := depth + 1
			if cfg.MaxDepth > 0 && nextDepth > cfg.MaxDepth {
				continue
			}
			walkOne(cfg, ignores, globs, m, sink, log, childFull, childRel, nextDepth)
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		if globs != nil && globs.IsIgnored(childRel, false) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		scanOneFile(m, sink, log, childFull, childRel, info.Size())
	}
}

func scanOneFile(m *matcher.Matcher, sink *output.Sink, log *applog.Logger, fullPath, relPath string, size int64) {
	fb := sink.NewFileBuffer(fullPath)
	err := scanFile(fullPath, size, func(number int, line []byte) bool {
		res, ok := m.FindFirst(line)
		if !ok {
			return false
		}
		return fb.AddMatch(number, line, res.Start, res.End)
	})
	if err != nil {
		if err == errLikelyBinary {
			log.Debug("skipping likely-binary file %s", fullPath)
		} else {
			log.Warn("cannot read file %s: %v", fullPath, err)
		}
		return
	}
	fb.Flush()
}
