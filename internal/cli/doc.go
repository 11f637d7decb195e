// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// builds the cobra command tree of fxc and translates flags and the project
// config file into the application's configuration.
package cli
