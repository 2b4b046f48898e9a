package app

import (
	"log/slog"
	"net/http"

	"shadowtalk/internal/relay"
	"shadowtalk/internal/session"
	"shadowtalk/internal/store"
	"shadowtalk/internal/vault"
)

// Wire bundles the stores, clients and the session for the CLI.
type Wire struct {
	Vault    *vault.Vault
	Relay    *relay.Client
	Notifier *relay.Notifier
	Session  *session.Session
	Log      *slog.Logger
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, log *slog.Logger) (*Wire, error) {
	if log == nil {
		log = slog.Default()
	}

	blobStore := store.NewBlobFileStore(cfg.Home)
	v := vault.New(blobStore)

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	rc := relay.NewClient(cfg.RelayURL, httpClient)
	notifier := relay.NewNotifier(rc, log)
	sess := session.New(rc, rc, v, log)

	return &Wire{
		Vault:    v,
		Relay:    rc,
		Notifier: notifier,
		Session:  sess,
		Log:      log,
		HTTP:     httpClient,
	}, nil
}
