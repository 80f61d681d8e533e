package baseline

import (
	"fmt"
	"os"
)

// resolveDisk reads the last-saved content of the file.
func resolveDisk(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return splitLines(string(data)), nil
}
