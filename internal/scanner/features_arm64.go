//go:build arm64

package scanner

import "golang.org/x/sys/cpu"

func hasAVX2() bool  { return false }
func hasASIMD() bool { return cpu.ARM64.HasASIMD }
