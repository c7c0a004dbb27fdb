package intake

import "context"

// StatusNew is the workflow state assigned to every freshly admitted record.
// Later transitions happen outside this program, in the sheet itself.
const StatusNew = "New Application"

// Record is one row of the applicant ledger. Records are created once, at
// admission, and never mutated afterwards.
type Record struct {
	MessageID     string
	Sender        string
	Subject       string
	ReceivedAt    string
	CVLink        string
	Name          string
	EmailCV       string
	Phone         string
	Skills        string
	Education     string
	JobAppliedFor string
	Status        string
	AckSent       bool
}

// ResumeFields holds the structured data pulled out of a resume document.
// Any field may be empty when extraction finds nothing.
type ResumeFields struct {
	Name      string
	Email     string
	Skills    string
	Education string
	FullText  string
}

// Attachment describes one attachment of a fetched message.
type Attachment struct {
	ID       string
	Filename string
}

// Message is a fully fetched mailbox message.
type Message struct {
	ID          string
	From        string
	Subject     string
	Date        string
	Body        string
	Attachments []Attachment
}

// MailSource lists, fetches and sends mailbox messages.
type MailSource interface {
	List(ctx context.Context, query string, max int64) ([]string, error)
	Fetch(ctx context.Context, id string) (*Message, error)
	FetchAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
	Send(ctx context.Context, to, subject, body string) error
}

// BlobStore uploads a binary blob and returns a durable reference to it.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// Ledger reads and appends applicant rows. AppendBatch is atomic per batch
// from the caller's perspective.
type Ledger interface {
	ReadAll(ctx context.Context) ([]Record, error)
	AppendBatch(ctx context.Context, rows []Record) error
}

// ResumeExtractor turns raw document bytes into structured resume fields.
type ResumeExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (*ResumeFields, error)
}
