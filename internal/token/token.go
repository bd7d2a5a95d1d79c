// Package token generates the correlation tokens that namespace one
// scenario's fixture state. Tokens are fixed-length random hex; generation
// never fails. If the system randomness source errors, a monotonic counter
// combined with the current time keeps tokens unique within a session.
package token

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"
)

// Length is the number of hex characters in a correlation token, matching
// the 12-character namespacing keys used for fixture files.
const Length = 12

var fallbackCounter atomic.Uint64

// New returns a fresh correlation token.
func New() string {
	buf := make([]byte, Length/2+1)
	if _, err := rand.Read(buf); err != nil {
		return fallbackToken()
	}
	return hex.EncodeToString(buf)[:Length]
}

// fallbackToken derives a unique token from a counter and the current time.
// Only reachable when crypto/rand is broken; uniqueness within one process
// is all that matters then.
func fallbackToken() string {
	n := fallbackCounter.Add(1)
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(time.Now().UnixNano())^n<<32)
	return hex.EncodeToString(buf)[:Length]
}
