// Package keys derives deterministic cache keys from argument tuples.
package keys

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// tuple elements are joined with the unit separator so ("ab","c") and
// ("a","bc") never collide before hashing
const sep = 0x1f

// ArgsKey returns a short hex digest over the ordered JSON form of args.
// encoding/json is deterministic for a given value (map keys are sorted,
// struct fields keep declaration order), so structurally identical tuples
// always produce the same key. Arguments without a JSON form (channels,
// funcs) make the tuple unkeyable and return an error.
func ArgsKey(args []any) (string, error) {
	var buf bytes.Buffer
	for i, a := range args {
		if i > 0 {
			buf.WriteByte(sep)
		}
		b, err := json.Marshal(a)
		if err != nil {
			return "", fmt.Errorf("keys: argument %d: %w", i, err)
		}
		buf.Write(b)
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:8]), nil
}
