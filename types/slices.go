package types

import "math/big"

// SliceOf maps a slice of type F to a new slice of type T using the provided
// conversion function.
func SliceOf[F, T any](from []F, conv func(F) T) []T {
	to := make([]T, len(from))
	for i, v := range from {
		to[i] = conv(v)
	}
	return to
}

// BigIntConverter wraps a *big.Int as a *BigInt. It fits the conversion
// function shape expected by SliceOf.
func BigIntConverter(from *big.Int) *BigInt {
	return new(BigInt).SetBigInt(from)
}
