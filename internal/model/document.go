// Package model provides data models shared across the service.
package model

import (
	"time"
)

// Document records an ingested document version. Every upload gets a
// fresh ID, so re-uploading a file produces a new version whose chunks
// coexist with the old ones in the vector store.
type Document struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Filename  string    `json:"filename" gorm:"type:varchar(255);not null;index"`
	Strategy  string    `json:"strategy" gorm:"type:varchar(32);not null"`
	ChunkNum  int       `json:"chunk_num" gorm:"default:0"`
	Size      int64     `json:"size" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Document.
func (Document) TableName() string {
	return "documents"
}

// ChunkSource is a retrieved chunk returned alongside an answer.
type ChunkSource struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index"`
	Content    string  `json:"content"`
	Score      float32 `json:"score"`
}
