package responses

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// LegacyDefaultKey collects lines that appear before the first header.
const LegacyDefaultKey = "DEFAULT_KEY"

var legacyHeader = regexp.MustCompile(`^### *(\w+):\s*$`)

// ParseLegacy reads the plain-text catalog format: "### KEY:" headers, one
// response per line, blank lines and lines starting with "<!--" ignored.
func ParseLegacy(r io.Reader) (Catalog, error) {
	c := Catalog{}
	key := LegacyDefaultKey
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "<!--") {
			continue
		}
		if m := legacyHeader.FindStringSubmatch(line); m != nil {
			key = m[1]
			continue
		}
		c[key] = append(c[key], line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading legacy catalog: %w", err)
	}
	return c, nil
}
