package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"desknotify/internal/notify"
	"desknotify/internal/output"
	"desknotify/internal/ui"
)

// RunBackendsList lists every registered backend, highest priority first.
func RunBackendsList() {
	m := loadManager()
	infos := m.Registry().AllInfo()
	current := m.BackendName()

	output.Print(map[string]any{"backends": infos, "current": current}, func() {
		ui.ShowHeader("Notification Backends")
		for _, info := range infos {
			mark := "✗"
			if info.Available {
				mark = "✓"
			}
			if info.Name == current {
				mark = "*"
			}
			ui.ShowItem(info.Available, "%s %-8s %3d  %s", mark, info.Name, info.Priority, info.Description)
		}
		fmt.Println()
		if current == "" {
			ui.ShowWarning("No backend available")
		} else {
			ui.ShowInfo("Current backend: %s", current)
		}
	})
}

// RunBackendsInfo prints the details of one backend, or of the current one
// when name is empty.
func RunBackendsInfo(name string) {
	m := loadManager()
	var (
		info notify.BackendInfo
		err  error
	)
	if name == "" {
		info, err = m.BackendInfo()
	} else {
		info, err = m.Registry().Info(name)
	}
	if err != nil {
		output.PrintError(err)
		return
	}

	output.Print(info, func() {
		ui.ShowHeader("Backend: " + info.Name)
		ui.ShowField("Description", info.Description)
		ui.ShowField("Priority", info.Priority)
		ui.ShowField("Available", info.Available)
		ui.ShowField("Features", strings.Join(info.Features, ", "))
		levels := make([]string, len(info.Urgencies))
		for i, u := range info.Urgencies {
			levels[i] = string(u)
		}
		ui.ShowField("Urgency levels", strings.Join(levels, ", "))

		keys := make([]string, 0, len(info.Extra))
		for k := range info.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ui.ShowField(k, info.Extra[k])
		}
	})
}

// RunBackendsTest sends a test notification through one backend, or through
// every available backend when name is empty. It exits 1 if any test fails.
func RunBackendsTest(name string) {
	m := loadManager()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results := map[string]notify.Result{}
	if name == "" {
		results = m.Registry().TestAll(ctx)
	} else {
		res, _ := m.Registry().Test(ctx, name)
		results[name] = res
	}

	names := make([]string, 0, len(results))
	failed := false
	for n, res := range results {
		names = append(names, n)
		if !res.Success {
			failed = true
		}
	}
	sort.Strings(names)

	output.Print(results, func() {
		if len(names) == 0 {
			ui.ShowWarning("No backend available to test")
			return
		}
		for _, n := range names {
			res := results[n]
			if res.Success {
				ui.ShowSuccess("%s: %s", n, res.Outcome)
			} else {
				ui.ShowError(n, fmt.Errorf("%s", res.Error))
			}
		}
	})
	if failed || len(names) == 0 {
		cancel()
		os.Exit(1)
	}
}
