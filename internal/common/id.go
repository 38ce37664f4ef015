package common

import (
	"github.com/google/uuid"
)

// NewDocumentID generates a unique document ID with the "doc_" prefix
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewChunkID generates a unique chunk ID with the "chunk_" prefix
func NewChunkID() string {
	return "chunk_" + uuid.New().String()
}

// NewSessionID generates a unique chat session ID
func NewSessionID() string {
	return uuid.New().String()
}
