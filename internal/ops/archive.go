// Package ops archives and restores the server data directory: the
// telemetry journal and the per-slot save snapshots.
package ops

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// gameArtifact reports whether a data-dir relative path belongs in an
// archive. Anything else under the data dir (temp files, editor junk)
// is left out.
func gameArtifact(rel string) bool {
	if rel == "events.jsonl" {
		return true
	}
	return rel == "saves" || strings.HasPrefix(rel, "saves/")
}

// DefaultArchiveName returns a timestamped file name for a new archive.
func DefaultArchiveName(now time.Time) string {
	return fmt.Sprintf("greatmerchant-%s.tar.gz", now.UTC().Format("20060102-150405"))
}

// Archive writes the game artifacts under dataDir into a tar.gz at
// archivePath.
func Archive(dataDir, archivePath string) error {
	dataDir = filepath.Clean(strings.TrimSpace(dataDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if dataDir == "" || archivePath == "" {
		return fmt.Errorf("data dir and archive path are required")
	}
	info, err := os.Stat(dataDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dataDir)
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	return filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == dataDir {
			return nil
		}
		rel, err := filepath.Rel(dataDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !gameArtifact(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if fi.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
}

// Restore unpacks an archive produced by Archive into dataDir. Existing
// files are overwritten; entries outside the data dir are rejected.
func Restore(archivePath, dataDir string) error {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	dataDir = filepath.Clean(strings.TrimSpace(dataDir))
	if archivePath == "" || dataDir == "" {
		return fmt.Errorf("archive path and data dir are required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		rel, err := safeRelPath(hdr.Name)
		if err != nil {
			return err
		}
		if !gameArtifact(rel) {
			return fmt.Errorf("unexpected archive entry: %s", rel)
		}
		dst := filepath.Join(dataDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dst, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		default:
			// skip device nodes and the like
		}
	}
}

func safeRelPath(name string) (string, error) {
	name = filepath.ToSlash(filepath.Clean(strings.TrimSpace(name)))
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid archive entry")
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "../") {
		return "", fmt.Errorf("archive entry escapes target: %s", name)
	}
	return name, nil
}
