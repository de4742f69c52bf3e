package storage

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Usage summarizes what the generated dataset occupies on disk.
type Usage struct {
	DataBytes  int64 `json:"data_bytes"`
	AssetBytes int64 `json:"asset_bytes"`
	AssetFiles int   `json:"asset_files"`
}

// Usage reports disk usage of the data and assets directories. Missing directories count as empty.
func (s *FileStorage) Usage() (Usage, error) {
	dataBytes, _, err := DiskUsage(s.dataDir)
	if err != nil {
		return Usage{}, err
	}
	assetBytes, files, err := DiskUsage(s.assetsDir)
	if err != nil {
		return Usage{}, err
	}
	return Usage{DataBytes: dataBytes, AssetBytes: assetBytes, AssetFiles: files}, nil
}

// DiskUsage returns the total size and file count of the given paths.
// Each path may be a file or a directory; missing paths are skipped.
func DiskUsage(paths ...string) (int64, int, error) {
	var total int64
	var files int
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, 0, err
		}
		if !info.IsDir() {
			total += info.Size()
			files++
			continue
		}
		err = filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			total += fi.Size()
			files++
			return nil
		})
		if err != nil {
			return 0, 0, err
		}
	}
	return total, files, nil
}
