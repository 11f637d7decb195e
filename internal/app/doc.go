// Package app contains the core application logic. It defines the main App
// struct and the compile, save and dump workflows, decoupled from any
// specific entrypoint like a CLI.
//
// Every workflow discovers graph files, loads each one through a
// config.GraphLoader, and drives a compiler.Compiler against an in-memory
// asset. Generated sources land under the configured cache root; save
// additionally persists sub-assets into the sqlite store.
package app
