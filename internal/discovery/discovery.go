package discovery

import (
	"os"
	"path/filepath"
)

// Locations returns the log directories to watch. Configured directories
// come first, verbatim. Well-known EVE Online install locations that
// exist on this machine are appended, deduplicated.
func Locations(configured []string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(dir string) {
		if dir == "" {
			return
		}
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		out = append(out, dir)
	}

	for _, dir := range configured {
		add(dir)
	}

	for _, base := range candidateBases() {
		for _, sub := range []string{"logs", "cache", "LogServer"} {
			dir := filepath.Join(base, sub)
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				add(dir)
			}
		}
	}

	return out
}

func candidateBases() []string {
	var bases []string

	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		bases = append(bases, filepath.Join(localAppData, "CCP", "EVE"))
	}
	for _, env := range []string{"PROGRAMFILES", "PROGRAMFILES(X86)"} {
		if pf := os.Getenv(env); pf != "" {
			bases = append(bases,
				filepath.Join(pf, "CCP", "EVE"),
				filepath.Join(pf, "EVE Online"))
		}
	}
	for _, drive := range []string{"C:", "D:", "E:"} {
		bases = append(bases, filepath.Join(drive, string(filepath.Separator), "EVE"))
	}

	if steam := steamInstallDir(); steam != "" {
		bases = append(bases, steam)
	}

	return bases
}
