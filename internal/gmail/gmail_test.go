package gmail

import (
	"encoding/base64"
	"strings"
	"testing"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/hiringtools/cv-intake/internal/intake"
)

func TestHeaderValue(t *testing.T) {
	payload := &gmailapi.MessagePart{
		Headers: []*gmailapi.MessagePartHeader{
			{Name: "From", Value: "Jane Doe <jane@example.com>"},
			{Name: "Subject", Value: "Application"},
		},
	}

	if got := headerValue(payload, "From"); got != "Jane Doe <jane@example.com>" {
		t.Fatalf("unexpected From: %q", got)
	}

	if got := headerValue(payload, "Date"); got != "" {
		t.Fatalf("expected empty value for missing header, got %q", got)
	}

	if got := headerValue(nil, "From"); got != "" {
		t.Fatalf("nil payload must yield empty value, got %q", got)
	}
}

func TestBodyTextDescendsIntoMultipart(t *testing.T) {
	encoded := base64.URLEncoding.EncodeToString([]byte("please find my cv attached"))

	payload := &gmailapi.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailapi.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmailapi.MessagePart{
					{
						MimeType: "text/html",
						Body:     &gmailapi.MessagePartBody{Data: encoded},
					},
					{
						MimeType: "text/plain",
						Body:     &gmailapi.MessagePartBody{Data: encoded},
					},
				},
			},
		},
	}

	if got := bodyText(payload); got != "please find my cv attached" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestCollectAttachments(t *testing.T) {
	payload := &gmailapi.MessagePart{
		Parts: []*gmailapi.MessagePart{
			{
				MimeType: "text/plain",
				Body:     &gmailapi.MessagePartBody{Data: "aGk="},
			},
			{
				Filename: "cv.pdf",
				Body:     &gmailapi.MessagePartBody{AttachmentId: "att-1"},
			},
			{
				MimeType: "multipart/mixed",
				Parts: []*gmailapi.MessagePart{
					{
						Filename: "cover-letter.docx",
						Body:     &gmailapi.MessagePartBody{AttachmentId: "att-2"},
					},
				},
			},
		},
	}

	var atts []intake.Attachment
	collectAttachments(payload, &atts)

	if len(atts) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(atts))
	}

	if atts[0].ID != "att-1" || atts[0].Filename != "cv.pdf" {
		t.Fatalf("unexpected first attachment: %+v", atts[0])
	}

	if atts[1].ID != "att-2" || atts[1].Filename != "cover-letter.docx" {
		t.Fatalf("unexpected nested attachment: %+v", atts[1])
	}
}

func TestEncodeRFC822(t *testing.T) {
	encoded := EncodeRFC822("jane@example.com", "Received", "Dear Jane,\nthanks!")

	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("the message must be padded websafe base64: %v", err)
	}

	msg := string(raw)
	if !strings.HasPrefix(msg, "To: jane@example.com\r\n") {
		t.Fatalf("unexpected message start: %q", msg)
	}

	if !strings.Contains(msg, "Subject: Received\r\n") {
		t.Fatalf("missing subject header: %q", msg)
	}

	if !strings.HasSuffix(msg, "\r\n\r\nDear Jane,\nthanks!") {
		t.Fatalf("unexpected body placement: %q", msg)
	}
}

func TestDecodeWeb64AcceptsBothPaddings(t *testing.T) {
	want := []byte("attachment bytes")

	padded := base64.URLEncoding.EncodeToString(want)
	got, err := decodeWeb64(padded)
	if err != nil || string(got) != string(want) {
		t.Fatalf("padded decode failed: %v %q", err, got)
	}

	unpadded := base64.RawURLEncoding.EncodeToString(want)
	got, err = decodeWeb64(unpadded)
	if err != nil || string(got) != string(want) {
		t.Fatalf("unpadded decode failed: %v %q", err, got)
	}

	if _, err := decodeWeb64("!!not base64!!"); err == nil {
		t.Fatalf("expected decode error")
	}
}
