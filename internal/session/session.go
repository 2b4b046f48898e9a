// Package session holds the client-side state of one logged-in user and
// orchestrates the key-management and envelope protocols against the
// external directory and transport.
//
// All mutable state (identity, trust table, group-key cache) lives on the
// Session value; nothing is package-global, so tests and multi-account
// processes can run sessions side by side.
package session

import (
	"context"
	"log/slog"
	"sync"

	"shadowtalk/internal/crypto"
	"shadowtalk/internal/domain"
	"shadowtalk/internal/trust"
	"shadowtalk/internal/vault"
)

// Session is the in-memory state of one account between login and logout.
type Session struct {
	directory domain.Directory
	transport domain.Transport
	vault     *vault.Vault
	log       *slog.Logger

	mu       sync.Mutex
	loggedIn bool
	username domain.Username
	identity domain.Identity
	groups   map[domain.GroupID]*groupEntry

	trustTable *trust.Table
}

// groupEntry caches one group's metadata and current key. Its mutex
// serialises key reads (send/receive) against key replacement
// (rotation/refresh) so every operation observes one consistent key.
type groupEntry struct {
	mu      sync.Mutex
	name    string
	members []domain.Username
	key     domain.GroupKey
}

// New returns a session wired to its external collaborators. A nil logger
// falls back to slog.Default().
func New(directory domain.Directory, transport domain.Transport, v *vault.Vault, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		directory:  directory,
		transport:  transport,
		vault:      v,
		log:        log,
		groups:     make(map[domain.GroupID]*groupEntry),
		trustTable: trust.NewTable(),
	}
}

// Login unlocks the stored identity for username, registering a fresh one
// first if no local key blob exists yet. On first login the generated
// public key is published to the directory before the blob is unlocked.
//
// A wrong password fails with domain.ErrBadPasswordOrCorrupted and leaves
// the stored blob untouched.
func (s *Session) Login(ctx context.Context, username domain.Username, password string) (domain.Fingerprint, error) {
	exists, err := s.vault.Exists(username)
	if err != nil {
		return "", err
	}
	if !exists {
		id, err := s.vault.Create(username, password)
		if err != nil {
			return "", err
		}
		if err := s.directory.Register(ctx, username, id.Public); err != nil {
			// Drop the fresh blob so the next login attempt registers
			// again instead of holding a key no peer can resolve.
			if ferr := s.vault.Forget(username); ferr != nil {
				s.log.Warn("could not remove unregistered vault", "username", username, "err", ferr)
			}
			return "", err
		}
		s.log.Info("registered new identity", "username", username)
	}

	id, err := s.vault.Open(username, password)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.loggedIn = true
	s.username = username
	s.identity = id
	s.groups = make(map[domain.GroupID]*groupEntry)
	s.mu.Unlock()

	fp := crypto.Fingerprint(id.Public)
	s.log.Info("logged in", "username", username, "fingerprint", fp)
	return fp, nil
}

// Logout wipes the private key, trust table and cached group keys. The
// stored blob survives; the account can log in again.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropStateLocked()
	s.log.Info("logged out")
}

// Forget removes the local encrypted key blob and ends the session.
// Without a backup the identity is unrecoverable afterwards.
func (s *Session) Forget() error {
	s.mu.Lock()
	username := s.username
	loggedIn := s.loggedIn
	s.mu.Unlock()
	if !loggedIn {
		return domain.ErrNotLoggedIn
	}

	if err := s.vault.Forget(username); err != nil {
		return err
	}
	s.mu.Lock()
	s.dropStateLocked()
	s.mu.Unlock()
	s.log.Info("local key removed", "username", username)
	return nil
}

// DeleteAccount removes the account from the directory, deletes the local
// blob and ends the session.
func (s *Session) DeleteAccount(ctx context.Context) error {
	s.mu.Lock()
	username := s.username
	loggedIn := s.loggedIn
	s.mu.Unlock()
	if !loggedIn {
		return domain.ErrNotLoggedIn
	}

	if err := s.directory.DeleteAccount(ctx, username); err != nil {
		return err
	}
	if err := s.vault.Forget(username); err != nil {
		return err
	}
	s.mu.Lock()
	s.dropStateLocked()
	s.mu.Unlock()
	s.log.Info("account deleted", "username", username)
	return nil
}

// Fingerprint returns the fingerprint of the session's own public key.
func (s *Session) Fingerprint() (domain.Fingerprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loggedIn {
		return "", domain.ErrNotLoggedIn
	}
	return crypto.Fingerprint(s.identity.Public), nil
}

// Username returns the logged-in username.
func (s *Session) Username() (domain.Username, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loggedIn {
		return "", domain.ErrNotLoggedIn
	}
	return s.username, nil
}

// ExportKey returns the encrypted key blob for backup. The export stays
// password-protected.
func (s *Session) ExportKey() ([]byte, error) {
	s.mu.Lock()
	username := s.username
	loggedIn := s.loggedIn
	s.mu.Unlock()
	if !loggedIn {
		return nil, domain.ErrNotLoggedIn
	}
	return s.vault.Export(username)
}

// Trust exposes the session's trust table for inspection.
func (s *Session) Trust() *trust.Table { return s.trustTable }

// currentIdentity snapshots the unlocked identity, failing when logged out.
func (s *Session) currentIdentity() (domain.Username, domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loggedIn {
		return "", domain.Identity{}, domain.ErrNotLoggedIn
	}
	return s.username, s.identity, nil
}

// dropStateLocked wipes all key material and session state. Callers hold s.mu.
func (s *Session) dropStateLocked() {
	crypto.Wipe(s.identity.Private[:])
	s.identity = domain.Identity{}
	for _, e := range s.groups {
		e.mu.Lock()
		crypto.Wipe(e.key[:])
		e.key = domain.GroupKey{}
		e.mu.Unlock()
	}
	s.groups = make(map[domain.GroupID]*groupEntry)
	s.trustTable.Reset()
	s.username = ""
	s.loggedIn = false
}
