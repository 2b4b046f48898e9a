package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"shadowtalk/internal/domain"
)

// Client talks to the relay server over HTTP. It implements both the
// directory and transport contracts.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a client for the relay at base. A nil httpClient
// falls back to http.DefaultClient.
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient}
}

// ---------- Directory ----------

type registerRequest struct {
	Username  domain.Username  `json:"username"`
	PublicKey domain.PublicKey `json:"public_key"`
}

type lookupResponse struct {
	Username  domain.Username  `json:"username"`
	PublicKey domain.PublicKey `json:"public_key"`
}

func (c *Client) Register(ctx context.Context, username domain.Username, pub domain.PublicKey) error {
	return c.post(ctx, "/users/register", registerRequest{Username: username, PublicKey: pub}, nil)
}

func (c *Client) LookupPublicKey(ctx context.Context, username domain.Username) (domain.PublicKey, error) {
	var out lookupResponse
	err := c.getJSON(ctx, "/users/lookup/"+url.PathEscape(username.String()), &out)
	if isNotFound(err) {
		return domain.PublicKey{}, domain.ErrRecipientNotFound
	}
	if err != nil {
		return domain.PublicKey{}, err
	}
	return out.PublicKey, nil
}

func (c *Client) DeleteAccount(ctx context.Context, username domain.Username) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+"/users/"+url.PathEscape(username.String()), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay delete account: %s", resp.Status)
	}
	return nil
}

// ---------- Transport ----------

type directSendRequest struct {
	Sender    domain.Username      `json:"sender"`
	Recipient domain.Username      `json:"recipient"`
	Message   domain.DirectMessage `json:"message"`
}

func (c *Client) SubmitDirectEnvelope(ctx context.Context, sender, recipient domain.Username, msg domain.DirectMessage) error {
	return c.post(ctx, "/chat/send", directSendRequest{Sender: sender, Recipient: recipient, Message: msg}, nil)
}

func (c *Client) FetchInbox(ctx context.Context, me domain.Username) ([]domain.InboxMessage, error) {
	var out []domain.InboxMessage
	if err := c.getJSON(ctx, "/chat/inbox/"+url.PathEscape(me.String()), &out); err != nil {
		return nil, err
	}
	return out, nil
}

type createGroupRequest struct {
	Creator      domain.Username        `json:"creator"`
	Name         string                 `json:"name"`
	Members      []domain.Username      `json:"members"`
	Distribution domain.KeyDistribution `json:"distribution"`
}

func (c *Client) CreateGroup(ctx context.Context, creator domain.Username, name string, members []domain.Username, dist domain.KeyDistribution) (domain.Group, error) {
	var out domain.Group
	err := c.post(ctx, "/chat/groups/create", createGroupRequest{
		Creator:      creator,
		Name:         name,
		Members:      members,
		Distribution: dist,
	}, &out)
	return out, err
}

func (c *Client) ListGroups(ctx context.Context, me domain.Username) ([]domain.Group, error) {
	var out []domain.Group
	if err := c.getJSON(ctx, "/chat/groups?member="+url.QueryEscape(me.String()), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FetchGroupShare(ctx context.Context, id domain.GroupID, me domain.Username) (domain.Envelope, error) {
	var out domain.Envelope
	err := c.getJSON(ctx, "/chat/groups/"+url.PathEscape(id.String())+"/share/"+url.PathEscape(me.String()), &out)
	if isNotFound(err) {
		return domain.Envelope{}, domain.ErrMemberNotFound
	}
	return out, err
}

type groupSendRequest struct {
	Sender   domain.Username `json:"sender"`
	Envelope domain.Envelope `json:"envelope"`
}

func (c *Client) SubmitGroupEnvelope(ctx context.Context, sender domain.Username, id domain.GroupID, env domain.Envelope) error {
	return c.post(ctx, "/chat/groups/"+url.PathEscape(id.String())+"/send", groupSendRequest{Sender: sender, Envelope: env}, nil)
}

func (c *Client) FetchGroupMessages(ctx context.Context, id domain.GroupID) ([]domain.GroupMessage, error) {
	var out []domain.GroupMessage
	if err := c.getJSON(ctx, "/chat/groups/"+url.PathEscape(id.String())+"/messages", &out); err != nil {
		return nil, err
	}
	return out, nil
}

type rotateRequest struct {
	Rotator      domain.Username        `json:"rotator"`
	Distribution domain.KeyDistribution `json:"distribution"`
}

func (c *Client) RotateGroupDistribution(ctx context.Context, rotator domain.Username, id domain.GroupID, dist domain.KeyDistribution) error {
	return c.post(ctx, "/chat/groups/"+url.PathEscape(id.String())+"/rotate", rotateRequest{Rotator: rotator, Distribution: dist}, nil)
}

// ---------- helpers ----------

// notFoundError marks a 404 so callers can map it to a domain error.
type notFoundError struct{ path string }

func (e *notFoundError) Error() string { return "relay: not found: " + e.path }

func isNotFound(err error) bool {
	_, ok := err.(*notFoundError)
	return ok
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return &notFoundError{path: path}
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay post %s: %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return &notFoundError{path: path}
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay get %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var (
	_ domain.Directory = (*Client)(nil)
	_ domain.Transport = (*Client)(nil)
)
