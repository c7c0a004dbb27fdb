package intake

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Config carries every tunable the reconciler needs. It replaces the mutable
// globals of earlier iterations of this pipeline: the reconciler receives one
// explicit value at construction and never consults ambient state.
type Config struct {
	Query             string
	MaxFetch          int64
	AllowedExtensions []string
	Categories        []Category
	AckSubject        string
	AckBody           string
}

// CycleReport summarizes one reconciliation cycle. Err is set only for
// collaborator-level failures that aborted the cycle; everything else is
// per-message and only counted.
type CycleReport struct {
	Fetched       int
	Admitted      int
	Duplicates    int
	NoAttachment  int
	ExtractFailed int
	AckFailed     int
	Err           error
}

// Reconciler runs the admit-or-reject decision for candidate messages and
// drives the upload/acknowledge/append side effects. Messages are processed
// one at a time; there is exactly one logical worker.
type Reconciler struct {
	mail       MailSource
	blobs      BlobStore
	ledger     Ledger
	extractor  ResumeExtractor
	classifier *Classifier
	cfg        Config
	logger     *zap.Logger
}

func NewReconciler(cfg Config, mail MailSource, blobs BlobStore, ledger Ledger, extractor ResumeExtractor, logger *zap.Logger) *Reconciler {
	if cfg.MaxFetch <= 0 {
		cfg.MaxFetch = 50
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = []string{".pdf", ".doc", ".docx"}
	}
	return &Reconciler{
		mail:       mail,
		blobs:      blobs,
		ledger:     ledger,
		extractor:  extractor,
		classifier: NewClassifier(cfg.Categories),
		cfg:        cfg,
		logger:     logger,
	}
}

// RunCycle executes one full pass: read ledger, build the dedup index, fetch
// candidate messages, admit or reject each, and append the admitted rows in a
// single batch. A cycle-fatal error leaves the ledger untouched; the next
// cycle retries from a clean ledger read.
func (r *Reconciler) RunCycle(ctx context.Context) CycleReport {
	var report CycleReport

	rows, err := r.ledger.ReadAll(ctx)
	if err != nil {
		report.Err = fmt.Errorf("read ledger: %w", err)
		return report
	}
	idx := NewIndex(rows)

	ids, err := r.mail.List(ctx, r.cfg.Query, r.cfg.MaxFetch)
	if err != nil {
		report.Err = fmt.Errorf("list messages: %w", err)
		return report
	}
	report.Fetched = len(ids)

	// seen guards against the listing returning the same id twice within
	// one page; the index alone only knows already-persisted rows.
	seen := make(map[string]struct{}, len(ids))
	pending := make([]Record, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		if idx.HasMessage(id) {
			report.Duplicates++
			continue
		}

		rec, outcome := r.process(ctx, id, idx)
		switch outcome {
		case outcomeAdmitted:
			pending = append(pending, *rec)
			seen[id] = struct{}{}
			idx.Insert(rec)
			report.Admitted++
			if !rec.AckSent {
				report.AckFailed++
			}
		case outcomeDuplicate:
			report.Duplicates++
		case outcomeNoAttachment:
			report.NoAttachment++
		case outcomeExtractFailed:
			report.ExtractFailed++
		}
	}

	if len(pending) > 0 {
		if err := r.ledger.AppendBatch(ctx, pending); err != nil {
			report.Err = fmt.Errorf("append %d rows: %w", len(pending), err)
			return report
		}
	}

	return report
}

type outcome int

const (
	outcomeAdmitted outcome = iota
	outcomeDuplicate
	outcomeNoAttachment
	outcomeExtractFailed
)

// process decides the fate of a single candidate message. Every failure here
// is isolated to the message: the cycle always moves on to the next one.
func (r *Reconciler) process(ctx context.Context, id string, idx *Index) (*Record, outcome) {
	msg, err := r.mail.Fetch(ctx, id)
	if err != nil {
		r.logger.Warn("fetching message failed", zap.String("message_id", id), zap.Error(err))
		return nil, outcomeExtractFailed
	}

	att := r.firstAllowedAttachment(msg)
	if att == nil {
		r.logger.Debug("no usable attachment", zap.String("message_id", id))
		return nil, outcomeNoAttachment
	}

	data, err := r.mail.FetchAttachment(ctx, id, att.ID)
	if err != nil {
		r.logger.Warn("downloading attachment failed",
			zap.String("message_id", id),
			zap.String("filename", att.Filename),
			zap.Error(err),
		)
		return nil, outcomeExtractFailed
	}

	fields, err := r.extractor.Extract(ctx, data, att.Filename)
	if err != nil {
		r.logger.Warn("resume extraction failed",
			zap.String("message_id", id),
			zap.String("filename", att.Filename),
			zap.Error(err),
		)
		return nil, outcomeExtractFailed
	}

	ident := DeriveIdentity(id, msg.From, fields)
	if idx.HasNameEmail(ident.NormalName(), ident.NormalEmail()) || idx.HasPhone(ident.Phone) {
		r.logger.Debug("duplicate submission under a different message id",
			zap.String("message_id", id),
			zap.String("email", ident.NormalEmail()),
		)
		return nil, outcomeDuplicate
	}

	link, err := r.blobs.Upload(ctx, data, att.Filename)
	if err != nil {
		r.logger.Warn("uploading attachment failed",
			zap.String("message_id", id),
			zap.String("filename", att.Filename),
			zap.Error(err),
		)
		return nil, outcomeExtractFailed
	}

	job := r.classifier.Classify(msg.Subject, msg.Body, fields.FullText)

	acked := true
	if err := r.mail.Send(ctx, ident.Email, r.cfg.AckSubject, r.renderAck(fields.Name)); err != nil {
		// The courtesy email is not part of admission; the applicant
		// is recorded either way.
		acked = false
		r.logger.Warn("acknowledgment send failed",
			zap.String("message_id", id),
			zap.String("to", ident.Email),
			zap.Error(err),
		)
	}

	rec := &Record{
		MessageID:     id,
		Sender:        msg.From,
		Subject:       msg.Subject,
		ReceivedAt:    msg.Date,
		CVLink:        link,
		Name:          fields.Name,
		EmailCV:       fields.Email,
		Phone:         ident.Phone,
		Skills:        fields.Skills,
		Education:     fields.Education,
		JobAppliedFor: job,
		Status:        StatusNew,
		AckSent:       acked,
	}

	r.logger.Info("admitted applicant",
		zap.String("message_id", id),
		zap.String("job", job),
		zap.Bool("ack_sent", acked),
	)

	return rec, outcomeAdmitted
}

func (r *Reconciler) firstAllowedAttachment(msg *Message) *Attachment {
	for i := range msg.Attachments {
		att := &msg.Attachments[i]
		if att.Filename == "" {
			continue
		}
		ext := strings.ToLower(filepath.Ext(att.Filename))
		for _, allowed := range r.cfg.AllowedExtensions {
			if ext == strings.ToLower(allowed) {
				return att
			}
		}
	}
	return nil
}

func (r *Reconciler) renderAck(name string) string {
	return strings.ReplaceAll(r.cfg.AckBody, "{applicant_name}", FirstName(name))
}
