package icons

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

//go:embed assets/material/*.svg
var bundled embed.FS

// BundledIcons lists the names of the embedded Material SVGs.
func BundledIcons() []string {
	entries, _ := fs.ReadDir(bundled, "assets/material")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

// InstallResult reports what Install did.
type InstallResult struct {
	Dir     string   `json:"dir"`
	Written []string `json:"written"`
	Skipped []string `json:"skipped"`
}

// Install copies the embedded Material SVGs into dir. Existing files are
// kept unless overwrite is set.
func Install(dir string, overwrite bool) (*InstallResult, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create icon dir: %w", err)
	}
	res := &InstallResult{Dir: dir}
	for _, name := range BundledIcons() {
		dst := filepath.Join(dir, name)
		if !overwrite {
			if _, err := os.Stat(dst); err == nil {
				res.Skipped = append(res.Skipped, name)
				continue
			}
		}
		data, err := bundled.ReadFile("assets/material/" + name)
		if err != nil {
			return res, fmt.Errorf("read bundled %s: %w", name, err)
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return res, fmt.Errorf("write %s: %w", dst, err)
		}
		res.Written = append(res.Written, name)
	}
	return res, nil
}
