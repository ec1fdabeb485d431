package archive

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FileInfo describes one partition file.
type FileInfo struct {
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	Size      string    `json:"size"`
	Modified  time.Time `json:"modified"`
}

// FileStats aggregates the archive's footprint.
type FileStats struct {
	Count      int    `json:"count"`
	TotalBytes int64  `json:"total_bytes"`
	TotalSize  string `json:"total_size"`
}

// ListFiles walks the storage root and returns all partition files, oldest
// path first.
func (w *Writer) ListFiles() ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".jsonl") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			rel = path
		}
		files = append(files, FileInfo{
			Path:      rel,
			SizeBytes: info.Size(),
			Size:      humanize.Bytes(uint64(info.Size())),
			Modified:  info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Stats returns file count and cumulative size of the archive.
func (w *Writer) Stats() (FileStats, error) {
	files, err := w.ListFiles()
	if err != nil {
		return FileStats{}, err
	}
	st := FileStats{Count: len(files)}
	for _, f := range files {
		st.TotalBytes += f.SizeBytes
	}
	st.TotalSize = humanize.Bytes(uint64(st.TotalBytes))
	return st, nil
}
