// Package cache prunes stale artifacts left behind by earlier sessions.
package cache

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/cinewatch/cinewatch/filesystem"
	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/util"
	"github.com/cinewatch/cinewatch/where"
	"github.com/spf13/afero"
)

// TTL is how long a cached artifact may live untouched.
const TTL = 7 * 24 * time.Hour

// SocketTTL bounds the age of leftover mpv IPC sockets.
const SocketTTL = 24 * time.Hour

// CollectGarbage removes expired cache files and abandoned player sockets.
func CollectGarbage() {
	removed := prune(where.Cache(), TTL, func(string) bool { return true })
	removed += prune(where.Temp(), SocketTTL, func(name string) bool {
		return strings.HasPrefix(name, "mpv-") && strings.HasSuffix(name, ".sock")
	})

	if removed > 0 {
		log.Infof("cache: removed %s", util.Quantify(removed, "stale file", "stale files"))
	}
}

func prune(dir string, ttl time.Duration, match func(name string) bool) (removed int) {
	fsys := filesystem.API()
	cutoff := time.Now().Add(-ttl)

	_ = afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		if !match(filepath.Base(path)) || info.ModTime().After(cutoff) {
			return nil
		}

		if fsys.Remove(path) == nil {
			removed++
		}
		return nil
	})

	return
}
