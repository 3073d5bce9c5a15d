package analytics

import (
	"encoding/json"
	"errors"
	"fmt"

	"example.com/fitanalytics/internal/domain"
)

// ErrCorruptState marks a persisted document that cannot be trusted.
var ErrCorruptState = errors.New("corrupt analytics state")

// Document is the single persisted blob holding all analytics state.
// Unknown fields are ignored on decode.
type Document struct {
	Records  []domain.WorkoutRecord `json:"records"`
	Models   []domain.ModelMeta     `json:"models"`
	Patterns []domain.UserPattern   `json:"patterns"`
}

// EncodeDocument serialises doc with empty collections written as [].
func EncodeDocument(doc Document) ([]byte, error) {
	if doc.Records == nil {
		doc.Records = []domain.WorkoutRecord{}
	}
	if doc.Models == nil {
		doc.Models = []domain.ModelMeta{}
	}
	if doc.Patterns == nil {
		doc.Patterns = []domain.UserPattern{}
	}
	return json.Marshal(doc)
}

// DecodeDocument parses raw and rejects it wholesale when any record breaks
// the data model invariants.
func DecodeDocument(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	for i, rec := range doc.Records {
		if rec.ID == "" || rec.Timestamp.IsZero() {
			return Document{}, fmt.Errorf("%w: record %d missing id or timestamp", ErrCorruptState, i)
		}
		if err := rec.Validate(); err != nil {
			return Document{}, fmt.Errorf("%w: record %s: %v", ErrCorruptState, rec.ID, err)
		}
	}
	for i := range doc.Patterns {
		doc.Patterns[i].Confidence = domain.ClampUnit(doc.Patterns[i].Confidence)
		doc.Patterns[i].Frequency = domain.ClampUnit(doc.Patterns[i].Frequency)
	}
	return doc, nil
}
