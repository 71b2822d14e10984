//go:build windows

package discovery

import "golang.org/x/sys/windows/registry"

// steamInstallDir looks up the Steam install location of EVE Online
// (Steam app 8500) in the registry.
func steamInstallDir() string {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall\Steam App 8500`,
		registry.QUERY_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return ""
	}
	defer key.Close()

	dir, _, err := key.GetStringValue("InstallLocation")
	if err != nil {
		return ""
	}
	return dir
}
