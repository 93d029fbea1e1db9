package id

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.RWMutex
	node *snowflake.Node
)

// Init configures the process-wide snowflake node. Each replica must use a
// distinct node id (0-1023). Calling Init again replaces the node.
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("creating snowflake node %d: %w", nodeID, err)
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

// New returns a time-ordered unique int64. Init must have been called.
func New() int64 {
	mu.RLock()
	n := node
	mu.RUnlock()
	if n == nil {
		panic("id: New called before Init")
	}
	return n.Generate().Int64()
}
