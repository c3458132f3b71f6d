package rlp

import "errors"

// Sentinel decode errors, mirroring the error vocabulary of
// wyf-ACCEPT-eth2030/pkg/rlp/errors.go. Decoding in this module only
// ever runs over bytes this package itself produced (see Stream), so
// these surface programmer errors rather than untrusted-input
// validation failures.
var (
	ErrExpectedString = errors.New("rlp: expected string")
	ErrExpectedList   = errors.New("rlp: expected list")
	ErrCanonSize       = errors.New("rlp: non-canonical size information")
	ErrEOL             = errors.New("rlp: end of list")
	ErrUint64Range     = errors.New("rlp: uint64 overflow")
	ErrValueTooLarge   = errors.New("rlp: value too large")
)
