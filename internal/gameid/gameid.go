// Package gameid generates sortable session identifiers: a UUIDv7 encoded as
// a 26-character Crockford base32 string, so identifiers created later sort
// lexicographically after earlier ones.
package gameid

import (
	"crypto/rand"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource supplies the random tail bytes; injected for deterministic tests
type RandSource interface {
	Intn(n int) int
}

// Generator produces session identifiers
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. A nil RandSource uses crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a new identifier using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new identifier
func (g *Generator) Generate() string {
	var id [16]byte

	// 48-bit millisecond timestamp, then random tail
	now := time.Now().UnixMilli()
	for i := 0; i < 6; i++ {
		id[i] = byte(now >> (40 - 8*i))
	}

	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			id[i] = byte(g.randSource.Intn(256))
		}
	} else {
		if _, err := rand.Read(id[6:]); err != nil {
			panic("gameid: " + err.Error())
		}
	}

	// Version 7, variant 10
	id[6] = (id[6] & 0x0f) | 0x70
	id[8] = (id[8] & 0x3f) | 0x80

	return encode(id)
}

// Valid reports whether s is a well-formed identifier
func Valid(s string) bool {
	if len(s) != 26 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !validChar[s[i]] {
			return false
		}
	}
	return true
}

var validChar = func() [256]bool {
	var v [256]bool
	for i := 0; i < len(alphabet); i++ {
		v[alphabet[i]] = true
	}
	return v
}()

// encode renders 128 bits as 26 base32 characters, 5 bits at a time
func encode(data [16]byte) string {
	out := make([]byte, 26)
	for i := range out {
		bit := i * 5
		idx, off := bit/8, bit%8

		var v uint8
		if idx < 16 {
			if off <= 3 {
				v = (data[idx] >> (3 - off)) & 0x1f
			} else {
				v = (data[idx] << (off - 3)) & 0x1f
				if idx+1 < 16 {
					v |= data[idx+1] >> (11 - off)
				}
			}
		}
		out[i] = alphabet[v]
	}
	return string(out)
}
