package fileutil

import (
	"bytes"
	"os"
)

// WriteIfChanged writes data to path, skipping the write when the file
// already holds identical bytes.
func WriteIfChanged(path string, data []byte) error {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
