package scanner

// HostFeatures reports the wider native vector instruction sets the current
// CPU supports. The scanner does not dispatch to hand-written vector code
// for any of them — see the package doc comment — but tests and callers
// that want to assert detection is wired correctly can inspect this.
type HostFeatures struct {
	AVX2  bool
	ASIMD bool
}

// Features probes the host CPU once per call. It is cheap (reads cached
// package-level flags from golang.org/x/sys/cpu) and safe to call per
// search if a caller wants to log it.
func Features() HostFeatures {
	return HostFeatures{
		AVX2:  hasAVX2(),
		ASIMD: hasASIMD(),
	}
}
