// Package commands implements the shadowtalk CLI.
//
// Every command opens the local vault with the account passphrase, talks
// to the relay through the session layer, and locks up again on exit.
// Plaintext and key material never leave the process.
package commands
