//go:build !release

package assert

import "fmt"

// That panics with the formatted message if cond is false. It exists to
// document and enforce internal invariants of the storage core — never to
// validate caller input, which should return an eris error instead.
func That(cond bool, format string, args ...any) { //nolint:goprintffuncname // it's ok
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
