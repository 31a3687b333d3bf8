package utils

import (
	"crypto/md5"
	"fmt"
)

// Fingerprint returns a stable hex digest for deduplicating uploaded content.
func Fingerprint(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf("%x", hash)
}
