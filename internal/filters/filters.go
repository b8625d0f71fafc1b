package filters

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FieldErrors maps an input field to a human-readable problem. It is
// returned for malformed filter values and invalid message payloads, and
// rendered as a 400 with a field-level error map.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("invalid input:")
	for _, field := range fields {
		b.WriteString(" ")
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(e[field])
	}
	return b.String()
}

// MessageFilter narrows an authorized message set. Absent fields impose no
// constraint; present fields combine with AND.
type MessageFilter struct {
	SentAfter   *time.Time
	SentBefore  *time.Time
	Sender      *uuid.UUID
	Receiver    *uuid.UUID
	Participant *uuid.UUID
	Content     string
	Search      string
}

// ParseMessageFilter reads filter criteria from query parameters. All
// malformed values are reported together.
func ParseMessageFilter(values url.Values) (MessageFilter, error) {
	errs := FieldErrors{}
	f := MessageFilter{
		SentAfter:   parseTime(values, "sent_after", errs),
		SentBefore:  parseTime(values, "sent_before", errs),
		Sender:      parseUUID(values, "sender", errs),
		Receiver:    parseUUID(values, "receiver", errs),
		Participant: parseUUID(values, "participant", errs),
		Content:     values.Get("content"),
		Search:      values.Get("search"),
	}
	if len(errs) > 0 {
		return MessageFilter{}, errs
	}
	return f, nil
}

// Apply appends SQL conditions over the messages table (alias m) using ?
// placeholders; callers rebind for the active driver.
func (f MessageFilter) Apply(conds []string, args []interface{}) ([]string, []interface{}) {
	if f.SentAfter != nil {
		conds = append(conds, "m.sent_at >= ?")
		args = append(args, *f.SentAfter)
	}
	if f.SentBefore != nil {
		conds = append(conds, "m.sent_at <= ?")
		args = append(args, *f.SentBefore)
	}
	if f.Sender != nil {
		conds = append(conds, "m.sender_id = ?")
		args = append(args, *f.Sender)
	}
	if f.Receiver != nil {
		conds = append(conds, "m.receiver_id = ?")
		args = append(args, *f.Receiver)
	}
	if f.Participant != nil {
		conds = append(conds, `EXISTS (
            SELECT 1 FROM conversation_participants cp
            WHERE cp.conversation_id = m.conversation_id AND cp.user_id = ?)`)
		args = append(args, *f.Participant)
	}
	if f.Content != "" {
		conds = append(conds, `m.body ILIKE '%' || ? || '%' ESCAPE '\'`)
		args = append(args, escapeLike(f.Content))
	}
	if f.Search != "" {
		needle := escapeLike(f.Search)
		conds = append(conds, `(m.body ILIKE '%' || ? || '%' ESCAPE '\' OR EXISTS (
            SELECT 1 FROM users u
            WHERE u.id IN (m.sender_id, m.receiver_id)
              AND (u.email ILIKE '%' || ? || '%' ESCAPE '\'
                   OR u.display_name ILIKE '%' || ? || '%' ESCAPE '\')))`)
		args = append(args, needle, needle, needle)
	}
	return conds, args
}

// escapeLike neutralizes LIKE pattern metacharacters so filter values match
// as literal substrings.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ConversationFilter narrows an authorized conversation set.
// SpecificParticipants requires every listed user to be a participant.
// CreatedAfter/CreatedBefore bound the timestamps of constituent messages,
// a proxy for the conversation's activity window.
type ConversationFilter struct {
	Participant          *uuid.UUID
	SpecificParticipants []uuid.UUID
	CreatedAfter         *time.Time
	CreatedBefore        *time.Time
}

// ParseConversationFilter reads conversation filter criteria from query
// parameters.
func ParseConversationFilter(values url.Values) (ConversationFilter, error) {
	errs := FieldErrors{}
	f := ConversationFilter{
		Participant:   parseUUID(values, "participant", errs),
		CreatedAfter:  parseTime(values, "created_after", errs),
		CreatedBefore: parseTime(values, "created_before", errs),
	}

	if raw := values.Get("specific_participants"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				errs["specific_participants"] = "malformed user id: " + part
				break
			}
			f.SpecificParticipants = append(f.SpecificParticipants, id)
		}
	}

	if len(errs) > 0 {
		return ConversationFilter{}, errs
	}
	return f, nil
}

// Apply appends SQL conditions over the conversations table (alias c).
func (f ConversationFilter) Apply(conds []string, args []interface{}) ([]string, []interface{}) {
	if f.Participant != nil {
		conds = append(conds, `EXISTS (
            SELECT 1 FROM conversation_participants cp
            WHERE cp.conversation_id = c.id AND cp.user_id = ?)`)
		args = append(args, *f.Participant)
	}
	// One EXISTS per id: the conversation must contain ALL listed users.
	for _, id := range f.SpecificParticipants {
		conds = append(conds, `EXISTS (
            SELECT 1 FROM conversation_participants cp
            WHERE cp.conversation_id = c.id AND cp.user_id = ?)`)
		args = append(args, id)
	}
	if f.CreatedAfter != nil {
		conds = append(conds, `EXISTS (
            SELECT 1 FROM messages m
            WHERE m.conversation_id = c.id AND m.sent_at >= ?)`)
		args = append(args, *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		conds = append(conds, `EXISTS (
            SELECT 1 FROM messages m
            WHERE m.conversation_id = c.id AND m.sent_at <= ?)`)
		args = append(args, *f.CreatedBefore)
	}
	return conds, args
}

func parseTime(values url.Values, key string, errs FieldErrors) *time.Time {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		errs[key] = "malformed timestamp, want RFC 3339"
		return nil
	}
	return &t
}

func parseUUID(values url.Values, key string, errs FieldErrors) *uuid.UUID {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		errs[key] = "malformed user id"
		return nil
	}
	return &id
}
