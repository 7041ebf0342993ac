package pipeline

import (
	"strings"

	"github.com/stacklok/prefsnap/internal/config"
	"github.com/stacklok/prefsnap/internal/export"
	"github.com/stacklok/prefsnap/internal/prefs"
	"github.com/stacklok/prefsnap/internal/store"
)

const (
	torBrowserName    = "TorBrowser"
	torBrowserVersion = "torbrowser.version"
	filteredSuffix    = "-Filtered"
)

// Filename returns the suggested output file name for a run of cfg over st.
func Filename(cfg *config.Config, st store.Store) string {
	name := cfg.Basename
	if cfg.Filter.Active() && cfg.Filter.AffectsFilename {
		name += filteredSuffix
	}
	if cfg.AppSpecificFilename {
		name = appPrefix(cfg, st) + name
	}

	ext := cfg.Format
	if f, err := export.ParseFormat(cfg.Format); err == nil {
		ext = f.Extension()
	}
	return name + "." + ext
}

// appPrefix returns "Name-Version-", "Name-" without a version, or nothing
// when no application name is known.
func appPrefix(cfg *config.Config, st store.Store) string {
	appName, appVersion := appIdentity(cfg, st)
	if appName == "" {
		return ""
	}
	prefix := strings.ReplaceAll(appName, " ", "-") + "-"
	if appVersion != "" {
		prefix += appVersion + "-"
	}
	return prefix
}

func appIdentity(cfg *config.Config, st store.Store) (string, string) {
	if st.PrefType(store.ViewEffective, torBrowserVersion) == prefs.TypeString {
		v, _ := st.Value(store.ViewEffective, torBrowserVersion)
		version, _ := v.Str()
		return torBrowserName, version
	}
	if p, ok := st.(store.AppInfoProvider); ok {
		if name, version := p.AppInfo(); name != "" {
			return name, version
		}
	}
	return cfg.App.Name, cfg.App.Version
}
