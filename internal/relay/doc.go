// Package relay contains the HTTP client for the directory/transport
// service and its long-poll notifier. Everything it sends or receives is
// opaque envelope material and public metadata; plaintext and unwrapped
// keys never reach this package.
package relay
