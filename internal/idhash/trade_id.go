// Package idhash computes deterministic identifiers for simulated records.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(ticker|action|date|seq), where seq is the trade's index
// within the run. Returns hex-encoded hash (64 characters). Identical runs
// produce identical trade IDs.
func ComputeTradeID(ticker, action string, date time.Time, seq int) string {
	data := fmt.Sprintf("%s|%s|%s|%d",
		ticker,
		action,
		date.UTC().Format("2006-01-02"),
		seq,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
