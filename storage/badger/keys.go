package badger

import (
	"fmt"

	"github.com/poiesic/clipfind/core"
)

// Key prefixes for different data types
const (
	transcriptPrefix = "txrec"
)

// makeTranscriptKey generates a key for a cached transcript by content ID.
func makeTranscriptKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", transcriptPrefix, id))
}
