package model

import "time"

type BlockType string

const (
	// BlockTypeBullet is the default inline-text block.
	BlockTypeBullet BlockType = "bullet"
	// BlockTypeCode is a single-line code annotation; Enter does not split it.
	BlockTypeCode BlockType = "code"
	// BlockTypeFence is a multi-line literal block; Enter inserts a newline.
	BlockTypeFence BlockType = "fence"
)

func (t BlockType) Valid() bool {
	switch t {
	case BlockTypeBullet, BlockTypeCode, BlockTypeFence:
		return true
	}
	return false
}

// Splittable reports whether Enter splits the block at the cursor
// (as opposed to inserting a literal newline).
func (t BlockType) Splittable() bool {
	return t == BlockTypeBullet
}

type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Block is one node of the outline tree.
//
// ParentID and Level are both persisted, but the flat pre-order sequence
// (Seq) is the canonical order; the outline package rederives parent links
// from levels on every rebuild, so the two can never drift apart for long.
type Block struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Type       BlockType `json:"type"`
	Content    string    `json:"content"`
	Level      int       `json:"level"`
	ParentID   *string   `json:"parentId,omitempty"`
	Collapsed  bool      `json:"collapsed,omitempty"`

	// Seq is the position in the document's flat pre-order sequence.
	// Normalized on every save.
	Seq int `json:"seq"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
