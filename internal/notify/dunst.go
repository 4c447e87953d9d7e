package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"desknotify/internal/config"
	"desknotify/internal/icons"
	"desknotify/internal/logging"
)

const (
	dunstRunTimeout   = 10 * time.Second
	dunstProbeTimeout = 5 * time.Second
)

var dunstFallbackPaths = []string{"/usr/bin/dunstify", "/usr/local/bin/dunstify"}

// Dunst shells out to dunstify. Exit status 0 means delivered (with actions,
// stdout names the chosen key), 1 means it expired and 2 that the user
// dismissed it.
type Dunst struct {
	command    string
	path       string
	markup     bool
	maxTimeout int
	log        *zerolog.Logger

	versionOnce sync.Once
	version     string
}

// NewDunst locates the configured command on PATH, then in the usual
// install locations.
func NewDunst(s config.DunstSettings) *Dunst {
	cmd := s.Command
	if cmd == "" {
		cmd = "dunstify"
	}
	d := &Dunst{
		command:    cmd,
		markup:     s.SupportsMarkup,
		maxTimeout: s.MaxTimeout,
		log:        logging.For("backend"),
	}
	d.path = findCommand(cmd, dunstFallbackPaths...)
	if d.path == "" {
		d.log.Debug().Str("command", cmd).Msg("dunstify not found")
	}
	return d
}

func findCommand(cmd string, fallbacks ...string) string {
	for _, c := range append([]string{cmd}, fallbacks...) {
		if p, err := exec.LookPath(c); err == nil {
			return p
		}
	}
	return ""
}

func (*Dunst) Name() string     { return "dunst" }
func (*Dunst) Priority() int    { return 90 }
func (d *Dunst) Available() bool { return d.path != "" }

// Path is the resolved executable, "" when missing.
func (d *Dunst) Path() string { return d.path }

// Args builds the dunstify argument list for n.
func (d *Dunst) Args(n Notification) []string {
	var args []string
	if id := replaceID(n.ID); id != "" {
		args = append(args, "-r", id)
	}
	args = append(args, "-u", string(NormalizeUrgency(string(n.Urgency))))
	if n.Timeout != nil {
		args = append(args, "-t", strconv.Itoa(ClampTimeout(*n.Timeout, d.maxTimeout)))
	}
	if icon := iconArg(n.Icon); icon != "" {
		args = append(args, "-i", icon)
	}
	if n.Category != "" {
		args = append(args, "-h", "string:category:"+n.Category)
	}
	if n.DesktopEntry != "" {
		args = append(args, "-h", "string:desktop-entry:"+n.DesktopEntry)
	}
	if n.Sound {
		args = append(args, "-h", "int:suppress-sound:0")
	}
	for _, a := range n.Actions {
		args = append(args, "-A", a.Key+","+a.Label)
	}
	return append(args, n.Title, n.Message)
}

// replaceID passes numeric ids through and hashes anything else into
// [1, 1000000) so the same string always replaces the same notification.
func replaceID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if v, err := strconv.ParseUint(id, 10, 32); err == nil && v > 0 {
		return id
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return strconv.FormatUint(uint64(h.Sum32()%999999+1), 10)
}

// iconArg keeps existing absolute paths and theme names. Glyphs mean
// nothing to the daemon and are dropped.
func iconArg(icon string) string {
	switch {
	case icon == "", icons.IsGlyph(icon):
		return ""
	case filepath.IsAbs(icon):
		if fileExists(icon) {
			return icon
		}
		return ""
	case strings.ContainsRune(icon, '/'):
		return ""
	default:
		return icon
	}
}

func (d *Dunst) runLimit(n Notification) time.Duration {
	if len(n.Actions) == 0 {
		return dunstRunTimeout
	}
	if n.Timeout == nil {
		return 0
	}
	ms := ClampTimeout(*n.Timeout, d.maxTimeout)
	if ms == 0 {
		return 0
	}
	return time.Duration(ms)*time.Millisecond + dunstRunTimeout
}

func (d *Dunst) Send(ctx context.Context, n Notification) (Result, error) {
	if !d.Available() {
		return failed(d.Name(), fmt.Errorf("%w: %s not found", ErrBackendUnavailable, d.command))
	}
	if limit := d.runLimit(n); limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	args := d.Args(n)
	cmd := exec.CommandContext(ctx, d.path, args...)
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	d.log.Debug().Strs("args", args).Msg("running dunstify")
	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return failed(d.Name(), errors.New("dunstify timed out"))
		}
		return failed(d.Name(), ctxErr)
	}

	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return failed(d.Name(), fmt.Errorf("run dunstify: %w", err))
		}
		code = exitErr.ExitCode()
	}

	res, err := d.interpret(n, code, stdout.String(), stderr.String())
	res.NotificationID = replaceID(n.ID)
	return res, err
}

func (d *Dunst) interpret(n Notification, code int, stdout, stderr string) (Result, error) {
	switch code {
	case 0:
		if len(n.Actions) == 0 {
			return delivered(d.Name(), OutcomeSent), nil
		}
		out := strings.TrimSpace(stdout)
		switch {
		case n.HasAction(out):
			res := delivered(d.Name(), OutcomeAction)
			res.Action = out
			return res, nil
		case out == "1":
			return delivered(d.Name(), OutcomeTimeout), nil
		case out == "2":
			return delivered(d.Name(), OutcomeDismissed), nil
		default:
			if out != "" {
				d.log.Debug().Str("stdout", out).Msg("unrecognised dunstify output")
			}
			return delivered(d.Name(), OutcomeSent), nil
		}
	case 1:
		return delivered(d.Name(), OutcomeTimeout), nil
	case 2:
		return delivered(d.Name(), OutcomeDismissed), nil
	default:
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = "no output"
		}
		return failed(d.Name(), fmt.Errorf("dunstify exited with code %d: %s", code, msg))
	}
}

// Version returns the first line of `dunstify --version`, "" when it fails.
func (d *Dunst) Version() string {
	d.versionOnce.Do(func() {
		if !d.Available() {
			return
		}
		out, err := d.probe(context.Background(), "--version")
		if err != nil {
			d.log.Debug().Err(err).Msg("dunstify --version failed")
			return
		}
		d.version, _, _ = strings.Cut(strings.TrimSpace(out), "\n")
	})
	return d.version
}

// Capabilities asks the running daemon what it supports.
func (d *Dunst) Capabilities(ctx context.Context) ([]string, error) {
	if !d.Available() {
		return nil, &BackendError{Backend: d.Name(), Err: ErrBackendUnavailable}
	}
	out, err := d.probe(ctx, "--capabilities")
	if err != nil {
		return nil, &BackendError{Backend: d.Name(), Err: err}
	}
	return strings.Fields(out), nil
}

func (d *Dunst) probe(ctx context.Context, flag string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dunstProbeTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, d.path, flag)
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("dunstify %s: %w", flag, err)
	}
	return string(out), nil
}

func (d *Dunst) Info() BackendInfo {
	features := []string{FeatureActions, FeatureIcons, FeatureUrgency, FeatureTimeout,
		FeatureReplace, FeatureHints, FeatureSound}
	if d.markup {
		features = append(features, FeatureMarkup)
	}
	info := BackendInfo{
		Name:        d.Name(),
		Priority:    d.Priority(),
		Available:   d.Available(),
		Description: "Dunst notification daemon via dunstify",
		Features:    features,
		Urgencies:   Urgencies,
		Extra: map[string]string{
			"command":     d.command,
			"max_timeout": strconv.Itoa(ClampTimeout(DefaultMaxTimeout, d.maxTimeout)),
		},
	}
	if d.path != "" {
		info.Extra["path"] = d.path
	}
	if v := d.Version(); v != "" {
		info.Extra["version"] = v
	}
	return info
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
