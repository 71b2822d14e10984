//go:build !windows

package discovery

func steamInstallDir() string { return "" }
