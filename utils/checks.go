package utils

import "os"

// Exists reports whether path exists in the filesystem.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func InStringSlice(needle string, haystack []string) bool {
	for _, e := range haystack {
		if e == needle {
			return true
		}
	}
	return false
}
