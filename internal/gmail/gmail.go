// Package gmail implements the mailbox capability on top of the Gmail API.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/hiringtools/cv-intake/internal/intake"
)

// Scopes covers everything the intake pipeline does with the mailbox:
// reading candidate messages and sending acknowledgments.
var Scopes = []string{gmailapi.GmailReadonlyScope, gmailapi.GmailSendScope}

const user = "me"

// Gmail quota units per method, see
// https://developers.google.com/gmail/api/reference/quota
const (
	quotaUnitsPerList       = 5
	quotaUnitsPerGet        = 5
	quotaUnitsPerAttachment = 5
	quotaUnitsPerSend       = 100

	quotaUnitsPerSecond = 250
	rateLimitPerSecond  = quotaUnitsPerSecond * 0.8
	rateLimitBurst      = quotaUnitsPerSecond
)

// Service adapts the Gmail API to intake.MailSource.
type Service struct {
	svc     *gmailapi.Service
	limiter *rate.Limiter
	logger  *zap.Logger
}

func New(ctx context.Context, client *http.Client, logger *zap.Logger) (*Service, error) {
	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}

	return &Service{
		svc:     svc,
		limiter: rate.NewLimiter(rateLimitPerSecond, rateLimitBurst),
		logger:  logger,
	}, nil
}

// List returns up to max message ids matching the mailbox query.
func (s *Service) List(ctx context.Context, query string, max int64) ([]string, error) {
	if err := s.limiter.WaitN(ctx, quotaUnitsPerList); err != nil {
		return nil, err
	}

	resp, err := s.svc.Users.Messages.List(user).Q(query).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}

	s.logger.Debug("listed mailbox candidates", zap.String("query", query), zap.Int("count", len(ids)))
	return ids, nil
}

// Fetch retrieves a full message and flattens the parts the reconciler cares
// about: headers, plain-text body and attachment metadata.
func (s *Service) Fetch(ctx context.Context, id string) (*intake.Message, error) {
	if err := s.limiter.WaitN(ctx, quotaUnitsPerGet); err != nil {
		return nil, err
	}

	msg, err := s.svc.Users.Messages.Get(user, id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("getting message %s: %w", id, err)
	}

	out := &intake.Message{
		ID:      id,
		From:    headerValue(msg.Payload, "From"),
		Subject: headerValue(msg.Payload, "Subject"),
		Date:    headerValue(msg.Payload, "Date"),
		Body:    bodyText(msg.Payload),
	}

	collectAttachments(msg.Payload, &out.Attachments)
	return out, nil
}

// FetchAttachment downloads and decodes one attachment body.
func (s *Service) FetchAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	if err := s.limiter.WaitN(ctx, quotaUnitsPerAttachment); err != nil {
		return nil, err
	}

	att, err := s.svc.Users.Messages.Attachments.Get(user, messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("getting attachment of message %s: %w", messageID, err)
	}

	data, err := decodeWeb64(att.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding attachment of message %s: %w", messageID, err)
	}
	return data, nil
}

// Send delivers a plain-text message from the authorized mailbox.
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	if err := s.limiter.WaitN(ctx, quotaUnitsPerSend); err != nil {
		return err
	}

	msg := &gmailapi.Message{Raw: EncodeRFC822(to, subject, body)}
	if _, err := s.svc.Users.Messages.Send(user, msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sending message to %s: %w", to, err)
	}

	s.logger.Debug("sent message", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// EncodeRFC822 assembles a minimal text/plain message in the websafe base64
// form users.messages.send expects.
func EncodeRFC822(to, subject, body string) string {
	raw := fmt.Sprintf(
		"To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		to, subject, body,
	)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func headerValue(payload *gmailapi.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// bodyText finds the first text/plain part, descending into nested multipart
// containers.
func bodyText(payload *gmailapi.MessagePart) string {
	if payload == nil {
		return ""
	}
	if payload.MimeType == "text/plain" && payload.Body != nil && payload.Body.Data != "" {
		if data, err := decodeWeb64(payload.Body.Data); err == nil {
			return string(data)
		}
		return ""
	}
	for _, part := range payload.Parts {
		if text := bodyText(part); text != "" {
			return text
		}
	}
	return ""
}

func collectAttachments(payload *gmailapi.MessagePart, out *[]intake.Attachment) {
	if payload == nil {
		return
	}
	for _, part := range payload.Parts {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			*out = append(*out, intake.Attachment{
				ID:       part.Body.AttachmentId,
				Filename: part.Filename,
			})
			continue
		}
		collectAttachments(part, out)
	}
}

// decodeWeb64 handles both padded and unpadded websafe base64, which the API
// mixes depending on the field.
func decodeWeb64(s string) ([]byte, error) {
	if data, err := base64.URLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}
