// Package idgen generates correlation identifiers for in-flight remote calls.
//
// An id is a fixed prefix, a process-wide sequence number and a short nanoid
// suffix, e.g. "sc_cb_42_f3Kq9ZrA". The sequence keeps ids unique within a
// process even if two random suffixes collide; the suffix keeps ids from two
// processes (or two restarts) from looking alike in backend logs. Ids only use
// [A-Za-z0-9_] so they are valid JSONP callback names.
package idgen

import (
	"fmt"
	"strconv"
	"sync/atomic"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultPrefix is prepended to every generated ID.
var DefaultPrefix = "sc_cb_"

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated.
var Length = 8

var seq atomic.Uint64

// Generate returns a new unique ID using the default prefix.
func Generate() (string, error) {
	return GenerateWithPrefix(DefaultPrefix)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	n := seq.Add(1)
	return prefix + strconv.FormatUint(n, 10) + "_" + id, nil
}
