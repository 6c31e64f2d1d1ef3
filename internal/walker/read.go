package walker

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/alestack/sgrep/internal/scanner"
)

// mmapThreshold is the spec §4.6/§6 cutoff: files at or below this size are
// mapped whole; larger files are read in bounded chunks instead, so a single
// huge match target never forces the whole thing into the address space.
const mmapThreshold = 128 * 1024 * 1024

const chunkSize = 64 * 1024

// binarySniffLen is how much of a file's opening bytes are checked for a
// NUL byte before scanning it for matches (spec §7: "binary-file-likely").
const binarySniffLen = 8 * 1024

var errLikelyBinary = errors.New("walker: file looks binary")

// lineFunc is called once per line, excluding its trailing newline. number
// is 1-based. Returning true stops the scan early (files-only mode, once a
// match has already been recorded).
type lineFunc func(number int, line []byte) (stop bool)

// scanFile reads path (whose size is already known from a prior Lstat) and
// invokes fn once per line. Small-to-moderate files are memory-mapped and
// scanned in place; larger files are read in fixed-size chunks so memory
// use stays bounded regardless of file size.
func scanFile(path string, size int64, fn lineFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if size > 0 && size <= mmapThreshold {
		data, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			// Some filesystems (procfs, certain network mounts) refuse
			// mmap; fall back to the chunked reader rather than failing
			// the whole file.
			return scanChunked(f, fn)
		}
		defer data.Unmap()
		if looksBinary(data[:min(len(data), binarySniffLen)]) {
			return errLikelyBinary
		}
		scanBuffer(data, 1, fn)
		return nil
	}

	return scanChunked(f, fn)
}

// scanBuffer iterates every line in an in-memory buffer via the SIMD
// newline scanner, starting line numbering at startLine.
func scanBuffer(data []byte, startLine int, fn lineFunc) {
	lineNo := startLine
	for len(data) > 0 {
		i := scanner.FindNewline(data)
		var line []byte
		if i < 0 {
			line = data
			data = nil
		} else {
			line = data[:i]
			data = data[i+1:]
		}
		if fn(lineNo, line) {
			return
		}
		lineNo++
	}
}

// scanChunked reads f in fixed-size chunks, reassembling lines that span a
// chunk boundary in a growable carry buffer. This serves both the "regular
// buffered read" and "streaming reader for files too large to fit" tiers
// from spec §4.6: neither ever holds more than one chunk plus one
// in-progress line in memory at a time.
func scanChunked(f *os.File, fn lineFunc) error {
	buf := make([]byte, chunkSize)
	var carry []byte
	lineNo := 1
	sniffed := false
	total := 0

	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if !sniffed {
				window := chunk
				if len(window) > binarySniffLen {
					window = window[:binarySniffLen]
				}
				if looksBinary(window) {
					return errLikelyBinary
				}
				sniffed = true
			}
			total += n

			carry = append(carry, chunk...)
			for {
				i := scanner.FindNewline(carry)
				if i < 0 {
					break
				}
				if fn(lineNo, carry[:i]) {
					return nil
				}
				lineNo++
				carry = carry[i+1:]
			}
			// Copy the unconsumed tail into its own array so the lines
			// already consumed ahead of it are not kept alive.
			if len(carry) > 0 {
				rest := make([]byte, len(carry))
				copy(rest, carry)
				carry = rest
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	if len(carry) > 0 {
		fn(lineNo, carry)
	}
	return nil
}

func looksBinary(window []byte) bool {
	return bytes.IndexByte(window, 0) >= 0
}
