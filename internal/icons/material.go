package icons

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var materialFiles = map[string]string{
	"info":     "info.svg",
	"warning":  "warning.svg",
	"error":    "error.svg",
	"success":  "check_circle.svg",
	"question": "help.svg",

	"save":    "save.svg",
	"load":    "download.svg",
	"open":    "folder_open.svg",
	"close":   "close.svg",
	"edit":    "edit.svg",
	"delete":  "delete.svg",
	"add":     "add.svg",
	"remove":  "remove.svg",
	"valid":   "check.svg",
	"invalid": "close.svg",

	"mic":        "mic.svg",
	"camera":     "camera_alt.svg",
	"speaker":    "volume_up.svg",
	"headphones": "headphones.svg",
	"keyboard":   "keyboard.svg",
	"mouse":      "mouse.svg",
	"monitor":    "desktop_windows.svg",
	"printer":    "print.svg",

	"audio":    "audiotrack.svg",
	"video":    "videocam.svg",
	"image":    "image.svg",
	"document": "description.svg",
	"folder":   "folder.svg",
	"file":     "insert_drive_file.svg",
	"music":    "music_note.svg",
	"movie":    "movie.svg",

	"network":  "wifi.svg",
	"internet": "language.svg",
	"email":    "email.svg",
	"download": "download.svg",
	"upload":   "upload.svg",
	"sync":     "sync.svg",

	"settings":    "settings.svg",
	"preferences": "tune.svg",
	"user":        "person.svg",
	"group":       "group.svg",
	"security":    "security.svg",
	"lock":        "lock.svg",
	"unlock":      "lock_open.svg",
	"key":         "vpn_key.svg",

	"terminal":     "terminal.svg",
	"calculator":   "calculate.svg",
	"calendar":     "calendar_today.svg",
	"clock":        "schedule.svg",
	"search":       "search.svg",
	"notification": "notifications.svg",
	"home":         "home.svg",
	"work":         "work.svg",

	"running":  "play_arrow.svg",
	"stopped":  "stop.svg",
	"paused":   "pause.svg",
	"waiting":  "hourglass_empty.svg",
	"complete": "done.svg",
	"failed":   "error_outline.svg",
}

// Material resolves names to Material Design SVG files in a directory.
type Material struct {
	dir string
}

func NewMaterial(dir string) *Material { return &Material{dir: dir} }

func (*Material) Name() string  { return "material" }
func (*Material) Priority() int { return 80 }

// Dir is the directory the set reads from.
func (m *Material) Dir() string { return m.dir }

// Available reports whether the directory holds at least one SVG.
func (m *Material) Available() bool {
	return len(svgStems(m.dir)) > 0
}

func (m *Material) Icon(name string) (string, bool) {
	if !m.Available() {
		return "", false
	}
	if file, ok := materialFiles[name]; ok {
		if p, ok := existing(m.dir, file); ok {
			return p, true
		}
	}
	return existing(m.dir, name+".svg")
}

func (m *Material) List() []string {
	seen := map[string]bool{}
	for name, file := range materialFiles {
		if _, ok := existing(m.dir, file); ok {
			seen[name] = true
		}
	}
	for _, stem := range svgStems(m.dir) {
		seen[stem] = true
	}
	return sortedKeys(seen)
}

// existing returns the absolute path of dir/file when it exists.
func existing(dir, file string) (string, bool) {
	if dir == "" {
		return "", false
	}
	p := filepath.Join(dir, file)
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return p, true
}

func svgStems(dir string) []string {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".svg") {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
