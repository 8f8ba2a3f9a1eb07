package elgamal

import "fmt"

// ErrInvalidCurveType is returned when a ciphertext references an
// unsupported curve type.
var ErrInvalidCurveType = fmt.Errorf("invalid curve type")

// ErrInvalidCiphertext is returned when a ciphertext is nil or missing one
// of its points.
var ErrInvalidCiphertext = fmt.Errorf("invalid ciphertext")
