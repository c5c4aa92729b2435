// Package sitelist loads the scan input: a file with one URL per line, or a
// single literal URL when the path does not exist.
package sitelist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load returns the URLs to scan. Blank lines are skipped; line order is
// preserved.
func Load(input string) ([]string, error) {
	file, err := os.Open(input)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{input}, nil
		}
		return nil, fmt.Errorf("open site list: %w", err)
	}
	defer file.Close()

	var urls []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			urls = append(urls, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read site list: %w", err)
	}
	return urls, nil
}
