package icons

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func installed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := Install(dir, false); err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	return dir
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("<svg/>"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestMinimal(t *testing.T) {
	m := NewMinimal()
	tests := []struct {
		name string
		want string
	}{
		{"info", "ℹ️"},
		{"information", "ℹ️"},
		{"alert", "⚠️"},
		{"fail", "❌"},
		{"microphone", "🎤"},
		{"bell", "🔔"},
		{"does-not-exist", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Icon(tt.name)
			if !ok {
				t.Fatalf("Icon(%q) ok = false", tt.name)
			}
			if got != tt.want {
				t.Errorf("Icon(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	if got := m.CategoryFallback("network"); got != "🌐" {
		t.Errorf("CategoryFallback(network) = %q, want 🌐", got)
	}
	if got := m.CategoryFallback("nope"); got != Unknown {
		t.Errorf("CategoryFallback(nope) = %q, want %q", got, Unknown)
	}
	if m.Known("nope") || !m.Known("ok") {
		t.Error("Known() mismatch")
	}
}

func TestMaterial(t *testing.T) {
	empty := NewMaterial(t.TempDir())
	if empty.Available() {
		t.Fatal("empty dir should not be available")
	}
	if _, ok := empty.Icon("info"); ok {
		t.Error("unavailable set resolved an icon")
	}

	dir := installed(t)
	m := NewMaterial(dir)
	if !m.Available() {
		t.Fatal("installed dir should be available")
	}

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"success", "check_circle.svg", true},
		{"open", "folder_open.svg", true},
		{"play", "play.svg", true}, // direct filename
		{"mic", "", false},         // mapped file not bundled
		{"nonexistent", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Icon(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("Icon(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if ok && got != filepath.Join(dir, tt.want) {
				t.Errorf("Icon(%q) = %q, want %q", tt.name, got, filepath.Join(dir, tt.want))
			}
		})
	}
}

func TestMaterialComplete(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "info.svg"))
	touch(t, filepath.Join(dir, "warning.svg"))
	touch(t, filepath.Join(dir, "error.svg"))
	if NewMaterialComplete(dir).Available() {
		t.Fatal("available without help_outline.svg")
	}
	touch(t, filepath.Join(dir, "help_outline.svg"))
	touch(t, filepath.Join(dir, "check_circle.svg"))
	touch(t, filepath.Join(dir, "devices.svg"))
	touch(t, filepath.Join(dir, "custom-thing.svg"))

	m := NewMaterialComplete(dir)
	tests := []struct {
		name string
		want string
	}{
		{"info", "info.svg"},
		{"INFO", "info.svg"},
		{"complete", "check_circle.svg"}, // alias -> success
		{"custom_thing", "custom-thing.svg"},
		{"device-phone", "devices.svg"},
		{"anything-else", "help_outline.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Icon(tt.name)
			if !ok {
				t.Fatalf("Icon(%q) ok = false", tt.name)
			}
			if want := filepath.Join(dir, tt.want); got != want {
				t.Errorf("Icon(%q) = %q, want %q", tt.name, got, want)
			}
		})
	}
}

func TestSystem(t *testing.T) {
	base := t.TempDir()
	theme := filepath.Join(base, "testtheme")
	touch(t, filepath.Join(theme, "index.theme"))
	if err := os.WriteFile(filepath.Join(theme, "index.theme"), []byte(`[Icon Theme]
Name=Test
Inherits=parent
Directories=16x16/status,48x48/status,scalable/status
`), 0644); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(theme, "16x16", "status", "dialog-information.png"))
	touch(t, filepath.Join(theme, "48x48", "status", "dialog-information.png"))
	touch(t, filepath.Join(theme, "scalable", "status", "dialog-information.svg"))
	touch(t, filepath.Join(base, "parent", "48x48", "apps", "firefox.png"))
	touch(t, filepath.Join(base, "hicolor", "32x32", "apps", "only-hicolor.png"))

	newSys := func(mode string, scalable bool) *System {
		return NewSystem(SystemOptions{
			Theme:          "testtheme",
			Size:           48,
			PreferScalable: scalable,
			Mode:           mode,
			SearchPaths:    []string{base},
			Pixmaps:        filepath.Join(base, "pixmaps"),
		})
	}

	s := newSys(ModeAuto, false)
	if !s.Available() {
		t.Fatal("theme should be available")
	}
	tests := []struct {
		name string
		want string
	}{
		{"info", filepath.Join(theme, "48x48", "status", "dialog-information.png")},
		{"firefox", filepath.Join(base, "parent", "48x48", "apps", "firefox.png")},
		{"only-hicolor", filepath.Join(base, "hicolor", "32x32", "apps", "only-hicolor.png")},
		{"missing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Icon(tt.name)
			if ok != (tt.want != "") || got != tt.want {
				t.Errorf("Icon(%q) = %q, %v; want %q", tt.name, got, ok, tt.want)
			}
		})
	}

	scalable := newSys(ModeAuto, true)
	if got, _ := scalable.Icon("info"); got != filepath.Join(theme, "scalable", "status", "dialog-information.svg") {
		t.Errorf("prefer scalable: Icon(info) = %q", got)
	}

	explicit := newSys(ModeExplicit, false)
	if _, ok := explicit.Icon("firefox"); ok {
		t.Error("explicit mode resolved an unmapped raw name")
	}
	if _, ok := explicit.Icon("info"); !ok {
		t.Error("explicit mode failed a mapped name")
	}

	if NewSystem(SystemOptions{Theme: "absent", SearchPaths: []string{base}}).Available() {
		t.Error("absent theme reported available")
	}
}

func TestSystem_MappingFile(t *testing.T) {
	base := t.TempDir()
	touch(t, filepath.Join(base, "mytheme", "48x48", "apps", "my-app.png"))
	mapping := filepath.Join(base, "map.yaml")
	if err := os.WriteFile(mapping, []byte(`
theme: mytheme
icons:
  build: my-app
  deploy: [nothing-here, my-app]
`), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewSystem(SystemOptions{MappingFile: mapping, Mode: ModeExplicit, SearchPaths: []string{base}})
	if s.Theme() != "mytheme" {
		t.Fatalf("Theme() = %q, want mytheme", s.Theme())
	}
	want := filepath.Join(base, "mytheme", "48x48", "apps", "my-app.png")
	for _, name := range []string{"build", "deploy"} {
		if got, _ := s.Icon(name); got != want {
			t.Errorf("Icon(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestManager_SelectionAndFallback(t *testing.T) {
	dir := installed(t)

	m := NewManager("auto", DefaultCacheSize)
	if got := m.Active(); got != "minimal" {
		t.Fatalf("Active() = %q, want minimal", got)
	}
	m.Register(NewMaterial(dir))
	if got := m.Active(); got != "material" {
		t.Fatalf("Active() after register = %q, want material", got)
	}

	if got := m.Icon("info", true); got != filepath.Join(dir, "info.svg") {
		t.Errorf("Icon(info) = %q", got)
	}
	// keyboard.svg is not bundled: material misses, minimal answers.
	if got := m.Icon("keyboard", true); got != "⌨️" {
		t.Errorf("Icon(keyboard) = %q, want ⌨️", got)
	}
	if got := m.Icon("keyboard", false); got != "" {
		t.Errorf("Icon(keyboard, no fallback) = %q, want empty", got)
	}

	info := m.Resolve("keyboard")
	if info.Set != "minimal" || !info.Fallback || info.Kind != KindMinimal {
		t.Errorf("Resolve(keyboard) = %+v", info)
	}
	if diff := cmp.Diff([]string{"material", "minimal"}, info.Attempted); diff != "" {
		t.Errorf("Attempted mismatch (-want +got):\n%s", diff)
	}
	if again := m.Resolve("keyboard"); !again.Cached {
		t.Error("second Resolve should be cached")
	}

	if got := m.Resolve("zzz-unknown"); got.Kind != KindFallback || got.Value != Unknown {
		t.Errorf("Resolve(unknown) = %+v", got)
	}
	if got := m.Resolve("🚀"); got.Kind != KindUnicode || got.Value != "🚀" {
		t.Errorf("Resolve(glyph) = %+v", got)
	}
	file := filepath.Join(dir, "save.svg")
	if got := m.Resolve(file); got.Kind != KindFilePath || got.Value != file {
		t.Errorf("Resolve(path) = %+v", got)
	}
}

func TestManager_SetActive(t *testing.T) {
	m := NewManager("material", 4)
	if got := m.Active(); got != "minimal" {
		t.Fatalf("unregistered preferred set: Active() = %q, want minimal", got)
	}
	if err := m.SetActive("nope"); !errors.Is(err, ErrUnknownIconSet) {
		t.Errorf("SetActive(nope) = %v, want ErrUnknownIconSet", err)
	}
	m.Register(NewMaterial(t.TempDir()))
	if err := m.SetActive("material"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("SetActive(empty material) = %v, want ErrUnavailable", err)
	}

	// Switching sets must not serve stale cached answers.
	m.Icon("info", true)
	dir := installed(t)
	m.Register(NewMaterial(dir))
	if err := m.SetActive("material"); err != nil {
		t.Fatalf("SetActive(material) error: %v", err)
	}
	if got := m.Icon("info", true); got != filepath.Join(dir, "info.svg") {
		t.Errorf("Icon(info) after switch = %q", got)
	}
}

func TestManager_Cache(t *testing.T) {
	type step struct {
		op         string // resolve, clear or register
		name       string
		wantCached bool
	}
	tests := []struct {
		name      string
		cacheSize int
		steps     []step
	}{
		{
			name:      "hit after first resolve",
			cacheSize: 4,
			steps: []step{
				{"resolve", "info", false},
				{"resolve", "info", true},
			},
		},
		{
			name:      "oldest entry evicted",
			cacheSize: 2,
			steps: []step{
				{"resolve", "info", false},
				{"resolve", "warning", false},
				{"resolve", "error", false},
				{"resolve", "error", true},
				{"resolve", "warning", true},
				{"resolve", "info", false},
			},
		},
		{
			name:      "recently used entry survives",
			cacheSize: 2,
			steps: []step{
				{"resolve", "info", false},
				{"resolve", "warning", false},
				{"resolve", "info", true},
				{"resolve", "error", false},
				{"resolve", "info", true},
				{"resolve", "warning", false},
			},
		},
		{
			name:      "size zero disables memoization",
			cacheSize: 0,
			steps: []step{
				{"resolve", "info", false},
				{"resolve", "info", false},
			},
		},
		{
			name:      "ClearCache purges",
			cacheSize: 4,
			steps: []step{
				{"resolve", "info", false},
				{"clear", "", false},
				{"resolve", "info", false},
				{"resolve", "info", true},
			},
		},
		{
			name:      "Register purges",
			cacheSize: 4,
			steps: []step{
				{"resolve", "info", false},
				{"register", "", false},
				{"resolve", "info", false},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager("minimal", tt.cacheSize)
			for i, st := range tt.steps {
				switch st.op {
				case "clear":
					m.ClearCache()
				case "register":
					m.Register(NewMaterial(t.TempDir()))
				default:
					if got := m.Resolve(st.name); got.Cached != st.wantCached {
						t.Fatalf("step %d: Resolve(%q).Cached = %v, want %v", i, st.name, got.Cached, st.wantCached)
					}
				}
			}
		})
	}
}

func TestManager_CacheKeyIncludesFallback(t *testing.T) {
	m := NewManager("minimal", 4)
	m.Lookup("info", true)
	if got := m.Lookup("info", false); got.Cached {
		t.Fatal("Lookup without fallback served the fallback entry")
	}
	if got := m.Lookup("info", true); !got.Cached {
		t.Fatal("Lookup with fallback missed the cache")
	}
}

func TestManager_Infos(t *testing.T) {
	dir := installed(t)
	m := NewManager("auto", 0)
	m.Register(NewMaterial(dir))
	m.Register(NewMaterialComplete(dir))

	if diff := cmp.Diff([]string{"material", "material-complete", "minimal"}, m.ListAll()); diff != "" {
		t.Errorf("ListAll() mismatch (-want +got):\n%s", diff)
	}
	info, err := m.SetInfo("material")
	if err != nil {
		t.Fatalf("SetInfo() error: %v", err)
	}
	if !info.Active || !info.Available || info.Priority != 80 || info.IconCount == 0 {
		t.Errorf("SetInfo(material) = %+v", info)
	}
	if _, err := m.SetInfo("nope"); !errors.Is(err, ErrUnknownIconSet) {
		t.Errorf("SetInfo(nope) = %v", err)
	}

	preview, err := m.Preview("minimal", 3)
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	if len(preview) != 3 {
		t.Errorf("Preview(minimal, 3) returned %d icons", len(preview))
	}
}

func TestInstall_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "info.svg"))

	res, err := Install(dir, false)
	if err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	if diff := cmp.Diff([]string{"info.svg"}, res.Skipped); diff != "" {
		t.Errorf("Skipped mismatch (-want +got):\n%s", diff)
	}
	if len(res.Written) != len(BundledIcons())-1 {
		t.Errorf("Written %d files, want %d", len(res.Written), len(BundledIcons())-1)
	}
	b, _ := os.ReadFile(filepath.Join(dir, "info.svg"))
	if string(b) != "<svg/>" {
		t.Error("existing file was overwritten")
	}
}

func TestIsGlyph(t *testing.T) {
	tests := map[string]bool{
		"🚀":    true,
		"ℹ️":   true,
		"info": false,
		"":     false,
		"日本語の長い名前": false,
	}
	for in, want := range tests {
		if got := IsGlyph(in); got != want {
			t.Errorf("IsGlyph(%q) = %v, want %v", in, got, want)
		}
	}
}
