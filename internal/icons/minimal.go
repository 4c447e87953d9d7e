package icons

// Unknown is the glyph returned when nothing else matches.
const Unknown = "❓"

var minimalGlyphs = map[string]string{
	// status
	"info":     "ℹ️",
	"warning":  "⚠️",
	"error":    "❌",
	"success":  "✅",
	"question": "❓",
	"valid":    "✓",
	"invalid":  "✗",

	// actions
	"save":   "💾",
	"load":   "📥",
	"open":   "📂",
	"close":  "❌",
	"edit":   "✏️",
	"delete": "🗑️",
	"add":    "➕",
	"remove": "➖",
	"copy":   "📋",
	"cut":    "✂️",
	"paste":  "📌",

	// devices
	"mic":        "🎤",
	"camera":     "📷",
	"speaker":    "🔊",
	"headphones": "🎧",
	"keyboard":   "⌨️",
	"mouse":      "🖱️",
	"monitor":    "🖥️",
	"printer":    "🖨️",
	"computer":   "💻",

	// media
	"audio":    "🔊",
	"video":    "📹",
	"image":    "🖼️",
	"document": "📄",
	"folder":   "📁",
	"file":     "📄",
	"music":    "🎵",
	"movie":    "🎬",
	"archive":  "📦",

	// network
	"network":   "🌐",
	"internet":  "🌍",
	"wifi":      "📶",
	"bluetooth": "📘",
	"email":     "✉️",
	"download":  "⬇️",
	"upload":    "⬆️",
	"sync":      "🔄",

	// system
	"settings":    "⚙️",
	"preferences": "🔧",
	"user":        "👤",
	"group":       "👥",
	"security":    "🔒",
	"lock":        "🔒",
	"unlock":      "🔓",
	"key":         "🔑",
	"password":    "🔐",

	// applications
	"terminal":     "💻",
	"calculator":   "🧮",
	"calendar":     "📅",
	"clock":        "🕐",
	"search":       "🔍",
	"notification": "🔔",
	"home":         "🏠",
	"work":         "💼",
	"games":        "🎮",

	// process states
	"running":  "▶️",
	"stopped":  "⏹️",
	"paused":   "⏸️",
	"waiting":  "⏳",
	"complete": "✅",
	"failed":   "❌",
	"loading":  "⏳",

	// arrows
	"up":       "⬆️",
	"down":     "⬇️",
	"left":     "⬅️",
	"right":    "➡️",
	"next":     "⏭️",
	"previous": "⏮️",
	"forward":  "⏩",
	"backward": "⏪",

	// symbols
	"star":    "⭐",
	"heart":   "❤️",
	"check":   "✓",
	"cross":   "✗",
	"plus":    "+",
	"minus":   "-",
	"equals":  "=",
	"percent": "%",
	"at":      "@",
	"hash":    "#",
	"dollar":  "$",

	// technical
	"code":     "💻",
	"bug":      "🐛",
	"gear":     "⚙️",
	"wrench":   "🔧",
	"hammer":   "🔨",
	"electric": "⚡",
	"battery":  "🔋",
	"signal":   "📶",
	"antenna":  "📡",
}

var minimalAliases = map[string]string{
	"information": "info",
	"alert":       "warning",
	"fail":        "error",
	"ok":          "success",
	"help":        "question",
	"microphone":  "mic",
	"volume":      "speaker",
	"screen":      "monitor",
	"config":      "settings",
	"configure":   "settings",
	"person":      "user",
	"people":      "group",
	"locked":      "lock",
	"unlocked":    "unlock",
	"cmd":         "terminal",
	"shell":       "terminal",
	"find":        "search",
	"bell":        "notification",
	"house":       "home",
	"office":      "work",
	"play":        "running",
	"stop":        "stopped",
	"pause":       "paused",
	"done":        "complete",
	"finish":      "complete",
	"broken":      "failed",
}

var categoryGlyphs = map[string]string{
	"status":      "ℹ️",
	"action":      "⚙️",
	"device":      "💻",
	"media":       "📄",
	"network":     "🌐",
	"system":      "⚙️",
	"application": "💻",
	"process":     "⚙️",
	"navigation":  "➡️",
	"symbol":      "❓",
	"technical":   "⚙️",
}

// Minimal is the emoji set. It is always available and resolves every name,
// unknown ones to Unknown.
type Minimal struct{}

func NewMinimal() *Minimal { return &Minimal{} }

func (*Minimal) Name() string    { return "minimal" }
func (*Minimal) Priority() int   { return 10 }
func (*Minimal) Available() bool { return true }

func (*Minimal) Icon(name string) (string, bool) {
	if g, ok := minimalGlyphs[name]; ok {
		return g, true
	}
	if target, ok := minimalAliases[name]; ok {
		return minimalGlyphs[target], true
	}
	return Unknown, true
}

// Known reports whether name is in the table or an alias, as opposed to
// resolving to Unknown.
func (*Minimal) Known(name string) bool {
	if _, ok := minimalGlyphs[name]; ok {
		return true
	}
	_, ok := minimalAliases[name]
	return ok
}

func (*Minimal) List() []string { return sortedNames(minimalGlyphs) }

// CategoryFallback returns a generic glyph for an icon category such as
// "device" or "network".
func (*Minimal) CategoryFallback(category string) string {
	if g, ok := categoryGlyphs[category]; ok {
		return g
	}
	return Unknown
}
