// Package model defines the CLI-facing domain types for mdpipe: process
// exit codes, the error type that carries them, and the summary structures
// rendered by commands in text or JSON form.
package model
