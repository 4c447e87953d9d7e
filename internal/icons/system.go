package icons

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"desknotify/internal/logging"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "breeze"

// System resolution modes.
const (
	ModeAuto     = "auto"
	ModeHybrid   = "hybrid"
	ModeExplicit = "explicit"
)

// semantic name -> freedesktop icon names, tried in order
var systemNames = map[string][]string{
	"info":     {"dialog-information", "help-info"},
	"warning":  {"dialog-warning"},
	"error":    {"dialog-error"},
	"success":  {"emblem-success", "emblem-ok", "dialog-ok"},
	"question": {"dialog-question", "help-about"},
	"alert":    {"dialog-warning"},
	"ok":       {"dialog-ok", "emblem-ok"},
	"valid":    {"emblem-ok", "checkmark"},

	"save":    {"document-save"},
	"open":    {"document-open", "folder-open"},
	"new":     {"document-new"},
	"copy":    {"edit-copy"},
	"cut":     {"edit-cut"},
	"paste":   {"edit-paste"},
	"undo":    {"edit-undo"},
	"redo":    {"edit-redo"},
	"find":    {"edit-find", "system-search"},
	"delete":  {"edit-delete", "user-trash"},
	"clear":   {"edit-clear"},
	"back":    {"go-previous"},
	"forward": {"go-next"},
	"up":      {"go-up"},
	"down":    {"go-down"},
	"home":    {"go-home", "user-home"},
	"refresh": {"view-refresh"},
	"edit":    {"document-edit", "accessories-text-editor"},
	"close":   {"window-close"},
	"add":     {"list-add"},
	"remove":  {"list-remove"},

	"play":     {"media-playback-start"},
	"pause":    {"media-playback-pause"},
	"stop":     {"media-playback-stop"},
	"next":     {"media-skip-forward"},
	"previous": {"media-skip-backward"},
	"record":   {"media-record"},
	"music":    {"audio-x-generic", "folder-music"},
	"video":    {"video-x-generic", "folder-videos"},

	"microphone": {"audio-input-microphone"},
	"mic":        {"audio-input-microphone"},
	"camera":     {"camera-photo", "camera-web"},
	"printer":    {"printer"},
	"scanner":    {"scanner"},
	"speaker":    {"audio-speakers", "audio-volume-high"},
	"headphones": {"audio-headphones"},
	"battery":    {"battery", "battery-full"},

	"settings":    {"preferences-system", "configure"},
	"config":      {"configure", "preferences-system"},
	"preferences": {"preferences-desktop", "preferences-system"},
	"user":        {"user-identity", "avatar-default"},
	"users":       {"system-users"},
	"network":     {"network-wired", "network-workgroup"},
	"wifi":        {"network-wireless"},
	"bluetooth":   {"bluetooth", "preferences-system-bluetooth"},
	"power":       {"system-shutdown"},
	"logout":      {"system-log-out"},
	"lock":        {"system-lock-screen", "object-locked"},

	"browser":    {"internet-web-browser"},
	"mail":       {"internet-mail", "mail-message"},
	"editor":     {"accessories-text-editor"},
	"terminal":   {"utilities-terminal"},
	"calculator": {"accessories-calculator"},
	"folder":     {"folder"},
	"file":       {"text-x-generic", "unknown"},
	"document":   {"x-office-document"},
	"image":      {"image-x-generic"},
	"archive":    {"package-x-generic"},

	"load":    {"process-working"},
	"loading": {"process-working"},
	"process": {"system-run"},
	"working": {"process-working"},
	"busy":    {"process-working"},

	"notification": {"preferences-desktop-notification", "notifications"},
}

var iconExts = []string{".svg", ".png", ".xpm"}

// SystemOptions configures the freedesktop theme lookup.
type SystemOptions struct {
	Theme          string
	Size           int
	PreferScalable bool
	Mode           string
	// MappingFile is a YAML file extending or overriding the name table.
	MappingFile string
	// SearchPaths replaces the XDG icon directories when set.
	SearchPaths []string
	// Pixmaps replaces /usr/share/pixmaps when set.
	Pixmaps string
}

// System resolves names against an installed freedesktop icon theme.
type System struct {
	opts    SystemOptions
	names   map[string][]string
	log     *zerolog.Logger
	verbose bool

	mu    sync.Mutex
	cache map[string]string // "" records a miss
}

// NewSystem builds the set. A broken mapping file is logged and ignored.
func NewSystem(opts SystemOptions) *System {
	if opts.Theme == "" {
		opts.Theme = DefaultTheme
	}
	if opts.Size <= 0 {
		opts.Size = 48
	}
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}
	if opts.SearchPaths == nil {
		opts.SearchPaths = iconSearchPaths()
	}
	if opts.Pixmaps == "" {
		opts.Pixmaps = "/usr/share/pixmaps"
	}
	s := &System{
		opts:  opts,
		names: make(map[string][]string, len(systemNames)),
		log:   logging.For("icons"),
		cache: map[string]string{},
	}
	for k, v := range systemNames {
		s.names[k] = v
	}
	if opts.MappingFile != "" {
		m, err := LoadMapping(opts.MappingFile)
		if err != nil {
			s.log.Warn().Err(err).Str("path", opts.MappingFile).Msg("ignoring icon mapping file")
		} else {
			for k, v := range m.Icons {
				s.names[k] = v
			}
			if m.Theme != "" && opts.Theme == DefaultTheme {
				s.opts.Theme = m.Theme
			}
		}
	}
	return s
}

func (*System) Name() string  { return "system" }
func (*System) Priority() int { return 100 }

// Theme is the configured theme name.
func (s *System) Theme() string { return s.opts.Theme }

// Size is the preferred icon size in pixels.
func (s *System) Size() int { return s.opts.Size }

// SetVerbose raises resolution logging from debug to info.
func (s *System) SetVerbose(v bool) { s.verbose = v }

// Available reports whether the configured theme is installed.
func (s *System) Available() bool {
	return len(s.themeRoots(s.opts.Theme)) > 0
}

func (s *System) Icon(name string) (string, bool) {
	s.mu.Lock()
	if p, ok := s.cache[name]; ok {
		s.mu.Unlock()
		s.trace().Str("icon", name).Str("path", p).Bool("cached", true).Msg("system icon lookup")
		return p, p != ""
	}
	s.mu.Unlock()

	p := s.lookup(name)

	s.mu.Lock()
	s.cache[name] = p
	s.mu.Unlock()
	s.trace().Str("icon", name).Str("path", p).Msg("system icon lookup")
	return p, p != ""
}

func (s *System) trace() *zerolog.Event {
	if s.verbose {
		return s.log.Info()
	}
	return s.log.Debug()
}

func (s *System) lookup(name string) string {
	if !s.Available() {
		return ""
	}
	var candidates []string
	candidates = append(candidates, s.names[name]...)
	if s.opts.Mode != ModeExplicit {
		candidates = append(candidates, name)
	}
	for _, c := range candidates {
		if p := s.findIcon(c); p != "" {
			return p
		}
	}
	return ""
}

// ClearCache drops remembered hits and misses.
func (s *System) ClearCache() {
	s.mu.Lock()
	s.cache = map[string]string{}
	s.mu.Unlock()
}

// List returns the semantic names that resolve in the installed theme.
func (s *System) List() []string {
	if !s.Available() {
		return nil
	}
	var out []string
	for name := range s.names {
		if _, ok := s.Icon(name); ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// findIcon walks the theme, its parents and hicolor, then pixmaps.
func (s *System) findIcon(icon string) string {
	visited := map[string]bool{}
	queue := []string{s.opts.Theme}
	for len(queue) > 0 {
		theme := queue[0]
		queue = queue[1:]
		if visited[theme] {
			continue
		}
		visited[theme] = true

		for _, root := range s.themeRoots(theme) {
			idx := readThemeIndex(root)
			for _, dir := range s.orderDirs(root, idx.dirs) {
				for _, ext := range iconExts {
					p := filepath.Join(root, dir, icon+ext)
					if _, err := os.Stat(p); err == nil {
						return p
					}
				}
			}
			queue = append(queue, idx.inherits...)
		}
		if len(queue) == 0 && !visited["hicolor"] {
			queue = append(queue, "hicolor")
		}
	}
	for _, ext := range iconExts {
		p := filepath.Join(s.opts.Pixmaps, icon+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (s *System) themeRoots(theme string) []string {
	var out []string
	for _, base := range s.opts.SearchPaths {
		p := filepath.Join(base, theme)
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			out = append(out, p)
		}
	}
	return out
}

// orderDirs sorts theme subdirectories so the preferred size comes first,
// then scalable (first of all when preferred), then the nearest sizes.
func (s *System) orderDirs(root string, dirs []string) []string {
	if len(dirs) == 0 {
		dirs = listSubdirs(root)
	}
	type scored struct {
		dir   string
		score int
	}
	out := make([]scored, 0, len(dirs))
	for _, d := range dirs {
		size, scalable := dirSize(d)
		var score int
		switch {
		case scalable && s.opts.PreferScalable:
			score = -1
		case size == s.opts.Size:
			score = 0
		case scalable:
			score = 1
		case size > 0:
			diff := size - s.opts.Size
			if diff < 0 {
				diff = -diff
			}
			score = 2 + diff
		default:
			score = 10000
		}
		out = append(out, scored{d, score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score < out[j].score })
	res := make([]string, len(out))
	for i, o := range out {
		res[i] = o.dir
	}
	return res
}

// dirSize reads the pixel size from paths like "48x48/apps", "actions/22"
// or "scalable/status".
func dirSize(dir string) (int, bool) {
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part == "scalable" {
			return 0, true
		}
		part = strings.SplitN(part, "@", 2)[0]
		if x := strings.Index(part, "x"); x > 0 {
			part = part[:x]
		}
		if n, err := strconv.Atoi(part); err == nil {
			return n, false
		}
	}
	return 0, false
}

func listSubdirs(root string) []string {
	var out []string
	top, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	for _, a := range top {
		if !a.IsDir() {
			continue
		}
		sub, err := os.ReadDir(filepath.Join(root, a.Name()))
		if err != nil {
			continue
		}
		nested := false
		for _, b := range sub {
			if b.IsDir() {
				out = append(out, filepath.Join(a.Name(), b.Name()))
				nested = true
			}
		}
		if !nested {
			out = append(out, a.Name())
		}
	}
	return out
}

type themeIndex struct {
	inherits []string
	dirs     []string
}

// readThemeIndex reads Inherits= and Directories= from index.theme.
func readThemeIndex(root string) themeIndex {
	var idx themeIndex
	f, err := os.Open(filepath.Join(root, "index.theme"))
	if err != nil {
		return idx
	}
	defer f.Close()

	inSection := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "[") {
			inSection = line == "[Icon Theme]"
			continue
		}
		if !inSection {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Inherits":
			idx.inherits = splitComma(val)
		case "Directories", "ScaledDirectories":
			idx.dirs = append(idx.dirs, splitComma(val)...)
		}
	}
	return idx
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func iconSearchPaths() []string {
	home, _ := os.UserHomeDir()
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" && home != "" {
		dataHome = filepath.Join(home, ".local", "share")
	}
	var out []string
	if dataHome != "" {
		out = append(out, filepath.Join(dataHome, "icons"))
	}
	if home != "" {
		out = append(out, filepath.Join(home, ".icons"))
	}
	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range filepath.SplitList(dataDirs) {
		if d != "" {
			out = append(out, filepath.Join(d, "icons"))
		}
	}
	return out
}

// Mapping is the YAML mapping file format:
//
//	theme: Papirus
//	icons:
//	  info: dialog-information
//	  save: [document-save, media-floppy]
type Mapping struct {
	Theme string                `yaml:"theme"`
	Icons map[string]Candidates `yaml:"icons"`
}

// Candidates accepts a single name or a list of names.
type Candidates []string

func (c *Candidates) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*c = Candidates{n.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := n.Decode(&list); err != nil {
			return err
		}
		*c = list
		return nil
	}
	return fmt.Errorf("line %d: expected a name or a list of names", n.Line)
}

// LoadMapping reads a YAML mapping file.
func LoadMapping(path string) (*Mapping, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Mapping
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &m, nil
}
