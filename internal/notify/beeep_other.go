//go:build !linux

package notify

func beeepUsable() bool { return true }
