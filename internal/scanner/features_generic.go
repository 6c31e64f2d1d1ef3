//go:build !amd64 && !arm64

package scanner

func hasAVX2() bool  { return false }
func hasASIMD() bool { return false }
