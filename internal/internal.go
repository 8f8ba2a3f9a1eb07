// Package internal holds build-time metadata shared by the binaries.
package internal

// Version is the build version, set at build time with
// -ldflags "-X github.com/vocdoni/trustledger/internal.Version=v1.2.3".
var Version = "dev"
