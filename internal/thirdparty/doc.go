// Package thirdparty holds the tests running the codec against other
// WebSocket implementations.
package thirdparty
