package intake

import "strings"

type nameEmailKey struct {
	name  string
	email string
}

// Index is the per-cycle dedup index. It is rebuilt from a fresh ledger
// snapshot on every cycle and owns no persistent state. Keys live in three
// separate typed sets, one per identity key kind.
type Index struct {
	messages   map[string]struct{}
	nameEmails map[nameEmailKey]struct{}
	phones     map[string]struct{}
	links      map[string]string
}

// NewIndex builds the index from ledger rows. Rows with missing fields simply
// contribute fewer keys.
func NewIndex(rows []Record) *Index {
	idx := &Index{
		messages:   make(map[string]struct{}, len(rows)),
		nameEmails: make(map[nameEmailKey]struct{}, len(rows)),
		phones:     make(map[string]struct{}, len(rows)),
		links:      make(map[string]string),
	}
	for i := range rows {
		idx.Insert(&rows[i])
	}
	return idx
}

// Insert registers a record's identity keys. The reconciler also calls it for
// rows admitted earlier in the same cycle, so content-level duplicates within
// one cycle are caught before they are persisted.
func (x *Index) Insert(r *Record) {
	if r.MessageID != "" {
		x.messages[r.MessageID] = struct{}{}
	}

	name := strings.ToLower(strings.TrimSpace(r.Name))
	email := strings.ToLower(strings.TrimSpace(r.EmailCV))
	if name != "" && email != "" {
		x.nameEmails[nameEmailKey{name: name, email: email}] = struct{}{}
		if _, ok := x.links[email]; !ok && r.CVLink != "" {
			x.links[email] = r.CVLink
		}
	}

	if phone := NormalizePhone(r.Phone); phone != "" {
		x.phones[phone] = struct{}{}
	}
}

// HasMessage reports whether a message id is already recorded.
func (x *Index) HasMessage(id string) bool {
	_, ok := x.messages[id]
	return ok
}

// HasNameEmail reports whether the pre-normalized name/email pair is already
// recorded. Empty parts never match.
func (x *Index) HasNameEmail(name, email string) bool {
	if name == "" || email == "" {
		return false
	}
	_, ok := x.nameEmails[nameEmailKey{name: name, email: email}]
	return ok
}

// HasPhone reports whether the pre-normalized phone is already recorded.
func (x *Index) HasPhone(phone string) bool {
	if phone == "" {
		return false
	}
	_, ok := x.phones[phone]
	return ok
}

// LinkForEmail returns the CV link previously stored for an email, allowing
// reuse without re-upload.
func (x *Index) LinkForEmail(email string) (string, bool) {
	link, ok := x.links[strings.ToLower(strings.TrimSpace(email))]
	return link, ok
}
