package fcp

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// generateUID creates a consistent UID from a file path using MD5 hash.
// Only the base name is hashed so the same file gets the same UID from any
// directory. FCP rejects a re-import of a file under a different UID.
func generateUID(filePath string) string {
	filename := filepath.Base(filePath)
	hasher := md5.New()
	hasher.Write([]byte("montage_media_" + filename))
	hexStr := strings.ToUpper(hex.EncodeToString(hasher.Sum(nil)))
	return fmt.Sprintf("%s-%s-%s-%s-%s",
		hexStr[0:8], hexStr[8:12], hexStr[12:16], hexStr[16:20], hexStr[20:32])
}

// GenerateUID is the public interface for UID generation
func GenerateUID(filePath string) string {
	return generateUID(filePath)
}

// GenerateResourceID creates a standardized resource ID
func GenerateResourceID(index int) string {
	return fmt.Sprintf("r%d", index)
}
