// Package types defines the Store interface, location and row types, and
// standard error values for the larder inventory storage core.
package types
