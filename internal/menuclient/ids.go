package menuclient

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idSuffixLength = 9

// NewItemID returns item-<unix millis>-<9 random hex characters>
func NewItemID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLength]
	return fmt.Sprintf("item-%d-%s", now.UnixMilli(), suffix)
}
