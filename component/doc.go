// Package component defines lifecycle contracts for long-lived pieces of the
// backend client, such as the HTTP client itself, and a small registry that
// starts them in order and stops them in reverse.
package component
