package common

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeOnce sync.Once
	snowflakeNode *snowflake.Node
)

// Sha256Hash returns the lowercase hex digest of the input.
// Operator passwords are stored in this form.
func Sha256Hash(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

// UUIDint64 returns a snowflake-based int64 identifier.
// The node id can be fixed with the SHOPD_NODE_ID environment variable
// when multiple instances share one database.
func UUIDint64() int64 {
	snowflakeOnce.Do(func() {
		nodeID := int64(1)
		if v := os.Getenv("SHOPD_NODE_ID"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 && n <= 1023 {
				nodeID = n
			}
		}
		node, err := snowflake.NewNode(nodeID)
		if err != nil {
			panic(err)
		}
		snowflakeNode = node
	})
	return snowflakeNode.Generate().Int64()
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
