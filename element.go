package lfseq

import "fmt"

// Elem is the constraint on Sequence element types: an unsigned integer of
// at least 32 bits. The sentinel value is always the type's zero value;
// lfseq does not support a configurable sentinel.
type Elem interface {
	~uint32 | ~uint64
}

// contractViolation panics with a uniform message. Violating a caller
// contract is a programming error, not a recoverable failure, so it
// surfaces as a panic rather than an error value.
func contractViolation(format string, args ...any) {
	panic(fmt.Sprintf("lfseq: contract violation: "+format, args...))
}

func checkNotSentinel[T Elem](v T) {
	if v == 0 {
		contractViolation("push of sentinel value")
	}
}
