// Package source reads free-text request inputs.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read returns one request per non-empty line. Blank lines and lines
// starting with '#' are skipped.
func Read(r io.Reader) ([]string, error) {
	var inputs []string

	scanner := bufio.NewScanner(r)
	// Allow long single-line requests.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inputs: %w", err)
	}

	return inputs, nil
}

// Load reads request inputs from a file.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return Read(f)
}
