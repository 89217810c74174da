//go:build (!amd64 && !arm64) || purego

package fastv7

var defaultTimebase Timebase = monotonicTimebase{}
