package models

import (
	"encoding/json"
	"strings"
)

// Record is the raw shape of a row in the tabular record store: an opaque id
// plus whatever fields happen to exist. Accessors below tolerate the loose
// typing (numbers arrive as float64, lists as []any, Chunk IDs as either a
// comma-joined string or a list).
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// Str returns the string value of a field, or "" when absent or not a string.
func (r *Record) Str(key string) string {
	if v, ok := r.Fields[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the numeric value of a field as an int, or 0 when absent.
func (r *Record) Int(key string) int {
	switch v := r.Fields[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return 0
}

// StrList returns a list-of-strings field, or nil when absent.
func (r *Record) StrList(key string) []string {
	raw, ok := r.Fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ChunkIDList reads the Chunk IDs field, which historically was written both
// as a comma-joined string and as a list.
func (r *Record) ChunkIDList() []string {
	if ids := r.StrList(FieldChunkIDs); ids != nil {
		return ids
	}
	joined := strings.TrimSpace(r.Str(FieldChunkIDs))
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// AttachmentList decodes the File field's attachment descriptors.
func (r *Record) AttachmentList() []Attachment {
	raw, ok := r.Fields[FieldFile].([]any)
	if !ok {
		return nil
	}
	out := make([]Attachment, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		att := Attachment{}
		if s, ok := obj["url"].(string); ok {
			att.URL = s
		}
		if s, ok := obj["filename"].(string); ok {
			att.Filename = s
		}
		if s, ok := obj["type"].(string); ok {
			att.Type = s
		}
		if n, ok := obj["size"].(float64); ok {
			att.Size = int64(n)
		}
		if att.URL != "" {
			out = append(out, att)
		}
	}
	return out
}

// DocumentFromRecord builds the typed optional-field view of a document row.
func DocumentFromRecord(r *Record) Document {
	return Document{
		ID:          r.ID,
		Title:       r.Str(FieldTitle),
		FullText:    strings.TrimSpace(r.Str(FieldFullText)),
		Attachments: r.AttachmentList(),
		Author:      r.Str(FieldAuthor),
		Summary:     r.Str(FieldSummary),
		WordCount:   r.Int(FieldWordCount),
		Language:    r.Str(FieldLanguage),
		Date:        r.Str(FieldDate),
		ThemeIDs:    r.StrList(FieldThemes),
		ChunkIDs:    r.ChunkIDList(),
		Status:      r.Str(FieldStatus),
	}
}

// ThemeFromRecord builds the typed view of a theme row.
func ThemeFromRecord(r *Record) Theme {
	return Theme{
		ID:          r.ID,
		Name:        r.Str(FieldName),
		Description: r.Str(FieldDescription),
		Count:       r.Int(FieldCount),
		DocumentIDs: r.StrList(FieldDocuments),
	}
}
