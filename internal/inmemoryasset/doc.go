// Package inmemoryasset provides a thread-safe, in-memory implementation of
// the assetsink.Sink interface. It backs the CLI's dump command and the
// compiler tests, where the compiled tables only need to be inspected.
package inmemoryasset
