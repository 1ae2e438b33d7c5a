// Package cmd implements the checkrun CLI commands using Cobra.
//
// Available commands:
//   - run: Execute the registered suites and print a report
//   - list: Display the registered suites and tests without running them
//   - show: Render a saved JSON report in any output format
//   - history: Browse runs recorded in the SQLite history database
//   - init: Write a default configuration file
//   - validate: Check a configuration file against the schema
//   - version: Show checkrun version information
//
// Suites are registered in Go code; a program builds a registry.Registry
// and hands it to Execute.
package cmd
