//go:build !darwin

package main

// watchWake is a no-op outside macOS; the device poll loop recovers on its own.
func watchWake(fn func()) {}
