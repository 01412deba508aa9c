package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/monolearn/conmodel/bitpoint"
)

// readPointSet reads a plaintext point-set file: a "count n" header
// followed by count lines of n whitespace-separated 0/1 digits
// (spec.md §6). The compressed `.bz2` and dense-bitset `.set` input
// variants are out of scope here (SPEC_FULL.md §5 Non-goals): this
// binary demonstrates the external interface with the plaintext form.
func readPointSet(path string) ([]bitpoint.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return nil, fmt.Errorf("%s: empty point-set file", path)
	}
	var count, n int
	if _, err := fmt.Sscanf(sc.Text(), "%d %d", &count, &n); err != nil {
		return nil, fmt.Errorf("%s: malformed header %q: %w", path, sc.Text(), err)
	}

	pts := make([]bitpoint.Point, 0, count)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != n {
			return nil, fmt.Errorf("%s: expected %d coordinates, got %d", path, n, len(fields))
		}
		coords := make([]int, n)
		for i, tok := range fields {
			switch tok {
			case "0":
				coords[i] = 0
			case "1":
				coords[i] = 1
			default:
				return nil, fmt.Errorf("%s: non-binary coordinate %q", path, tok)
			}
		}
		pts = append(pts, bitpoint.New(coords...))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(pts) != count {
		return nil, fmt.Errorf("%s: header declared %d points, got %d", path, count, len(pts))
	}
	return pts, nil
}

// setType is the parsed {prefix}/type file: two whitespace-separated
// tokens, type_good and type_values (spec.md §6).
type setType struct {
	TypeGood   string
	TypeValues string
}

func readType(path string) (setType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return setType{}, err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return setType{}, fmt.Errorf("%s: empty type file", path)
	}
	st := setType{TypeGood: fields[0]}
	if len(fields) > 1 {
		st.TypeValues = fields[1]
	}
	return st, nil
}
