package commands

import (
	"fmt"
	"os"
	"sort"

	"desknotify/internal/icons"
	"desknotify/internal/output"
	"desknotify/internal/tui"
	"desknotify/internal/ui"
)

// previewLimit bounds `icons preview`.
const previewLimit = 20

// RunIconsSets lists the registered icon sets.
func RunIconsSets() {
	im := loadManager().Icons()
	infos := im.Infos()

	output.Print(map[string]any{"sets": infos, "active": im.Active()}, func() {
		ui.ShowHeader("Icon Sets")
		for _, s := range infos {
			mark := " "
			if s.Active {
				mark = "*"
			}
			status := "available"
			if !s.Available {
				status = "not available"
			}
			ui.ShowItem(s.Available, "%s %-18s %3d  %4d icons  %s", mark, s.Name, s.Priority, s.IconCount, status)
		}
	})
}

// RunIconsList prints every icon of set, the active set when set is empty.
func RunIconsList(set string) {
	printIcons(set, 0)
}

// RunIconsPreview prints the first icons of set.
func RunIconsPreview(set string) {
	printIcons(set, previewLimit)
}

func printIcons(set string, limit int) {
	im := loadManager().Icons()
	if set == "" {
		set = im.Active()
	}
	values, err := im.Preview(set, limit)
	if err != nil {
		output.PrintError(err)
		return
	}
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)

	output.Print(map[string]any{"set": set, "icons": values}, func() {
		ui.ShowHeader(fmt.Sprintf("Icons: %s (%d)", set, len(names)))
		if len(names) == 0 {
			ui.ShowWarning("Icon set %s has no icons available", set)
			return
		}
		for _, n := range names {
			ui.ShowItem(true, "%-20s %s", n, values[n])
		}
	})
}

// RunIconsResolve resolves each name through the active chain.
func RunIconsResolve(names []string) {
	im := loadManager().Icons()
	infos := make([]icons.Info, 0, len(names))
	for _, n := range names {
		infos = append(infos, im.Resolve(n))
	}

	output.Print(infos, func() {
		for _, info := range infos {
			if info.Value == "" {
				ui.ShowError(info.Name, fmt.Errorf("not found in %v", info.Attempted))
				continue
			}
			ui.ShowSuccess("%s → %s", info.Name, info.Value)
			ui.ShowField("Kind", info.Kind)
			if info.Set != "" {
				ui.ShowField("Set", info.Set)
			}
			if info.Fallback {
				ui.ShowField("Fallback", true)
			}
		}
	})
}

// RunIconsInstall copies the bundled Material icons to dir, the configured
// material directory when dir is empty.
func RunIconsInstall(dir string, force bool) {
	if dir == "" {
		_, s := mustLoadConfig()
		dir = s.Icons.MaterialPath()
	}
	res, err := icons.Install(dir, force)
	if err != nil {
		output.PrintError(err)
		return
	}
	output.Print(res, func() {
		ui.ShowSuccess("Installed %d icons to %s", len(res.Written), res.Dir)
		if len(res.Skipped) > 0 {
			ui.ShowInfo("Skipped %d existing icons (use --force to overwrite)", len(res.Skipped))
		}
	})
}

// RunIconsBrowse opens the interactive browser.
func RunIconsBrowse() {
	m := loadManager()
	var sender tui.Sender
	if m.Available() {
		sender = m
	}
	if err := tui.Run(m.Icons(), sender); err != nil {
		ui.ShowError("Icon browser failed", err)
		os.Exit(1)
	}
}
