// File: internal/archive/artifact.go
package archive

import (
	"fmt"
	"strings"
	"time"
)

const ArtifactExtension = ".tar.gz"

// ArtifactName returns "{prefix}-{YYYYMMDD}.tar.gz" for the date of at in its own location
func ArtifactName(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%s%s", prefix, at.Format("20060102"), ArtifactExtension)
}

// ObjectKey places name under keyPrefix, joining the two with delimiter when
// the prefix does not already end with it
func ObjectKey(keyPrefix, delimiter, name string) string {
	if keyPrefix == "" {
		return name
	}
	if delimiter != "" && !strings.HasSuffix(keyPrefix, delimiter) {
		return keyPrefix + delimiter + name
	}
	return keyPrefix + name
}
