package domain

import "time"

// Meta carries the fields every stored document shares. Entity structs embed
// it inline so the id and creation timestamp live at the top level of the
// persisted document.
type Meta struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// DocumentID returns the primary key of the document.
func (m *Meta) DocumentID() string { return m.ID }

// SetDocumentID assigns the primary key. Used by the store when the caller
// did not supply an id.
func (m *Meta) SetDocumentID(id string) { m.ID = id }

// StampCreatedAt records the creation time. Set once by the store at create
// time and never mutated afterwards.
func (m *Meta) StampCreatedAt(t time.Time) { m.CreatedAt = t }
