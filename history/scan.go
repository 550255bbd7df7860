package history

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Tan-0321/HOSHI-WorkFlow/header"
	"github.com/Tan-0321/HOSHI-WorkFlow/internal/pool"
)

// scanFile calls fn for every line of the file at path with its zero-based
// index, until fn returns false. It returns the number of lines visited.
func scanFile(path string, fn func(idx int, line string) bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	n, err := scanReader(f, fn)
	if err != nil {
		return n, fmt.Errorf("read %s: %w", path, err)
	}

	return n, nil
}

func scanReader(r io.Reader, fn func(idx int, line string) bool) (int, error) {
	bb := pool.GetScanBuffer()
	defer pool.PutScanBuffer(bb)

	sc := bufio.NewScanner(r)
	sc.Buffer(bb.B[:cap(bb.B)], pool.MaxLineSize)

	n := 0
	for sc.Scan() {
		idx := n
		n++
		if !fn(idx, sc.Text()) {
			break
		}
	}

	return n, sc.Err()
}

// dataFields splits a data line into fields. Text after the header marker is
// a comment. ok is false for lines without fields.
func dataFields(line string) (fields []string, ok bool) {
	if i := strings.IndexByte(line, header.Marker); i >= 0 {
		line = line[:i]
	}
	fields = strings.Fields(line)

	return fields, len(fields) > 0
}
