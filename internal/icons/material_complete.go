package icons

import "strings"

var completeFiles = map[string]string{
	// status and dialogs
	"info":     "info.svg",
	"warning":  "warning.svg",
	"error":    "error.svg",
	"success":  "check_circle.svg",
	"question": "help.svg",
	"alert":    "warning.svg",
	"ok":       "check_circle.svg",
	"valid":    "check_circle.svg",

	// actions
	"save":    "save.svg",
	"open":    "folder_open.svg",
	"new":     "new.svg",
	"copy":    "copy.svg",
	"cut":     "cut.svg",
	"paste":   "paste.svg",
	"undo":    "undo.svg",
	"redo":    "redo.svg",
	"find":    "find.svg",
	"delete":  "delete.svg",
	"clear":   "clear.svg",
	"back":    "back.svg",
	"forward": "forward.svg",
	"up":      "up.svg",
	"down":    "down.svg",
	"home":    "home.svg",
	"refresh": "refresh.svg",
	"edit":    "edit.svg",
	"close":   "close.svg",
	"add":     "add.svg",

	// media
	"play":     "play.svg",
	"pause":    "pause.svg",
	"stop":     "stop.svg",
	"next":     "next.svg",
	"previous": "previous.svg",
	"record":   "record.svg",
	"music":    "music.svg",
	"video":    "video.svg",

	// devices
	"microphone": "microphone.svg",
	"mic":        "microphone.svg",
	"camera":     "camera.svg",
	"printer":    "printer.svg",
	"scanner":    "scanner.svg",
	"speaker":    "speaker.svg",
	"headphones": "headphones.svg",
	"battery":    "battery.svg",

	// system
	"settings":    "settings.svg",
	"config":      "settings.svg",
	"preferences": "settings.svg",
	"user":        "person.svg",
	"users":       "users.svg",
	"network":     "network.svg",
	"wifi":        "wifi.svg",
	"bluetooth":   "bluetooth.svg",
	"power":       "power.svg",
	"logout":      "logout.svg",
	"lock":        "lock.svg",

	// applications
	"browser":    "browser.svg",
	"mail":       "mail.svg",
	"editor":     "editor.svg",
	"terminal":   "terminal.svg",
	"calculator": "calculator.svg",
	"folder":     "folder.svg",
	"file":       "insert_drive_file.svg",
	"document":   "document.svg",
	"image":      "image.svg",
	"archive":    "archive.svg",

	// progress
	"load":    "load.svg",
	"loading": "loading.svg",
	"process": "process.svg",
	"working": "working.svg",
	"busy":    "busy.svg",

	"notification": "notifications.svg",
	"check":        "check.svg",
	"cross":        "close.svg",
}

var completeAliases = map[string]string{
	"information": "info",
	"fail":        "error",
	"failed":      "error",
	"complete":    "success",
	"directory":   "folder",
	"configure":   "settings",
	"person":      "user",
	"bell":        "notification",
	"house":       "home",
}

// Prefix matches are tried in this order.
var categoryFiles = []struct{ prefix, file string }{
	{"app-", "apps.svg"},
	{"device-", "devices.svg"},
	{"action-", "touch_app.svg"},
	{"status-", "info.svg"},
	{"folder-", "folder.svg"},
	{"file-", "insert_drive_file.svg"},
	{"audio-", "audiotrack.svg"},
	{"video-", "videocam.svg"},
	{"image-", "image.svg"},
	{"network-", "wifi.svg"},
	{"system-", "settings.svg"},
	{"user-", "person.svg"},
	{"notification-", "notifications.svg"},
}

var essentialFiles = []string{"info.svg", "warning.svg", "error.svg", "help_outline.svg"}

// MaterialComplete is the extended Material table. Besides direct mappings
// it understands aliases, category prefixes like "device-" and falls back
// to help_outline.svg, so it resolves almost anything once installed.
type MaterialComplete struct {
	dir string
}

func NewMaterialComplete(dir string) *MaterialComplete { return &MaterialComplete{dir: dir} }

func (*MaterialComplete) Name() string  { return "material-complete" }
func (*MaterialComplete) Priority() int { return 70 }

func (m *MaterialComplete) Available() bool {
	for _, f := range essentialFiles {
		if _, ok := existing(m.dir, f); !ok {
			return false
		}
	}
	return true
}

func (m *MaterialComplete) Icon(name string) (string, bool) {
	if !m.Available() {
		return "", false
	}
	return m.resolve(normalizeName(name), 0)
}

func (m *MaterialComplete) resolve(name string, depth int) (string, bool) {
	if file, ok := completeFiles[name]; ok {
		if p, ok := existing(m.dir, file); ok {
			return p, true
		}
	}
	if target, ok := completeAliases[name]; ok && depth < 2 {
		return m.resolve(target, depth+1)
	}
	if p, ok := existing(m.dir, name+".svg"); ok {
		return p, true
	}
	for _, c := range categoryFiles {
		if strings.HasPrefix(name, c.prefix) {
			if p, ok := existing(m.dir, c.file); ok {
				return p, true
			}
		}
	}
	return existing(m.dir, "help_outline.svg")
}

func (m *MaterialComplete) List() []string {
	seen := map[string]bool{}
	for name, file := range completeFiles {
		if _, ok := existing(m.dir, file); ok {
			seen[name] = true
		}
	}
	for _, stem := range svgStems(m.dir) {
		seen[stem] = true
	}
	return sortedKeys(seen)
}

func normalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}
