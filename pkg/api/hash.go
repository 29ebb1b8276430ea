package api

import (
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"
)

const timeRFC3339Nano = "2006-01-02T15:04:05.999999999Z07:00"

// ReportID derives a short, deterministic ID from the idea text and the
// submission time using BLAKE3.
func ReportID(idea string, createdAt time.Time) string {
	h := blake3.New()
	h.Write([]byte(idea))
	h.Write([]byte{0})
	if !createdAt.IsZero() {
		h.Write([]byte(createdAt.UTC().Format(timeRFC3339Nano)))
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)[:16]
}

// NewReport stamps a result with an ID and creation time.
func NewReport(idea string, res ValidationResult, fallback bool, errMsg string, now time.Time) Report {
	now = now.UTC()
	return Report{
		ID:        ReportID(idea, now),
		Idea:      idea,
		CreatedAt: now,
		Fallback:  fallback,
		Error:     errMsg,
		Result:    res.Complete(),
	}
}
