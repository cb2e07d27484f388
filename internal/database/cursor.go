package database

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Cursor is an opaque position marker in the project list ordering. An empty
// cursor means "from the top". Cursors are positional snapshots: any insert
// or delete ahead of the marked position silently invalidates them, which is
// why the pager rebuilds its cursor cache after every mutation.
type Cursor string

type cursorKey struct {
	CreatedAt int64  `json:"c"`
	ID        string `json:"i"`
}

func encodeCursor(createdAt time.Time, id string) Cursor {
	raw, _ := json.Marshal(cursorKey{CreatedAt: createdAt.UnixNano(), ID: id})
	return Cursor(base64.RawURLEncoding.EncodeToString(raw))
}

func decodeCursor(c Cursor) (cursorKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return cursorKey{}, fmt.Errorf("malformed cursor: %w", err)
	}
	var key cursorKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return cursorKey{}, fmt.Errorf("malformed cursor: %w", err)
	}
	return key, nil
}
