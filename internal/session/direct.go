package session

import (
	"context"

	"shadowtalk/internal/domain"
	"shadowtalk/internal/protocol/direct"
	"shadowtalk/internal/trust"
)

// PlaceholderText is rendered in place of a message that failed to
// authenticate. The conversation continues; nothing is thrown away.
const PlaceholderText = "[Could not decrypt]"

// Attachment is a file payload attached to a direct message.
type Attachment struct {
	Data     []byte
	Filename string
	MimeType string
}

// SendOptions carries delivery metadata the transport interprets. It
// travels outside the cryptographic envelope.
type SendOptions struct {
	BurnAfterRead bool
	ExpirySeconds int
}

// ReceivedMessage is one decrypted (or placeholder) inbox entry together
// with the trust verdict for its sender.
type ReceivedMessage struct {
	Sender     domain.Username
	Text       string
	Attachment []byte
	Filename   string
	MimeType   string
	Decrypted  bool
	Trust      trust.Result
	SentAt     int64
}

// SendDirect encrypts text and/or an attachment for recipient and submits
// the envelope. At least one payload must be present. The recipient's key
// comes from the directory; a miss fails with domain.ErrRecipientNotFound.
func (s *Session) SendDirect(ctx context.Context, recipient domain.Username, text []byte, att *Attachment, opts SendOptions) error {
	me, id, err := s.currentIdentity()
	if err != nil {
		return err
	}

	recipientPub, err := s.directory.LookupPublicKey(ctx, recipient)
	if err != nil {
		return err
	}

	msg := domain.DirectMessage{
		BurnAfterRead: opts.BurnAfterRead,
		ExpirySeconds: opts.ExpirySeconds,
	}
	if len(text) > 0 {
		env, err := direct.Seal(text, recipientPub, id.Private)
		if err != nil {
			return err
		}
		msg.Text = &env
	}
	if att != nil {
		env, err := direct.Seal(att.Data, recipientPub, id.Private)
		if err != nil {
			return err
		}
		msg.Attachment = &env
		msg.Filename = att.Filename
		msg.MimeType = att.MimeType
	}
	if !msg.Valid() {
		return domain.ErrEmptyMessage
	}

	if err := s.transport.SubmitDirectEnvelope(ctx, me, recipient, msg); err != nil {
		return err
	}
	s.log.Debug("direct message sent", "recipient", recipient, "attachment", att != nil)
	return nil
}

// FetchInbox pulls pending direct messages, runs trust verification on each
// sender and decrypts the payloads. Authentication failures yield
// placeholder entries instead of errors; a sender missing from the
// directory is skipped with a warning.
func (s *Session) FetchInbox(ctx context.Context) ([]ReceivedMessage, error) {
	me, id, err := s.currentIdentity()
	if err != nil {
		return nil, err
	}

	items, err := s.transport.FetchInbox(ctx, me)
	if err != nil {
		return nil, err
	}

	out := make([]ReceivedMessage, 0, len(items))
	for _, item := range items {
		senderPub, err := s.directory.LookupPublicKey(ctx, item.Sender)
		if err != nil {
			s.log.Warn("sender not found, skipping message", "sender", item.Sender)
			continue
		}

		rm := ReceivedMessage{
			Sender:    item.Sender,
			Decrypted: true,
			Trust:     s.trustTable.Check(item.Sender, senderPub),
			SentAt:    item.SentAt,
		}
		if rm.Trust.Status == trust.KeyChanged {
			s.log.Warn("contact key changed",
				"sender", item.Sender,
				"old", rm.Trust.Previous,
				"new", rm.Trust.Fingerprint)
		}

		if item.Message.Text != nil {
			plain, err := direct.Open(*item.Message.Text, senderPub, id.Private)
			if err != nil {
				rm.Text = PlaceholderText
				rm.Decrypted = false
			} else {
				rm.Text = string(plain)
			}
		}
		if item.Message.Attachment != nil {
			data, err := direct.Open(*item.Message.Attachment, senderPub, id.Private)
			if err != nil {
				rm.Decrypted = false
			} else {
				rm.Attachment = data
				rm.Filename = item.Message.Filename
				rm.MimeType = item.Message.MimeType
			}
		}
		out = append(out, rm)
	}
	return out, nil
}
