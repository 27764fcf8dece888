package design

import (
	"fmt"

	"github.com/google/uuid"
)

// Design is the metadata record for one exported quadrant crop.
type Design struct {
	ID            string `json:"id"`
	SetID         string `json:"set_id"`
	QuadrantIndex int    `json:"quadrant_index"`
	ImageURL      string `json:"image_url"`
}

// DesignSet groups the four designs cut from one composite image.
type DesignSet struct {
	ID             string  `json:"id"`
	SourceImageURL string  `json:"source_image_url"`
	Note           *string `json:"note"`
}

// NewID returns a random (version 4) UUID string.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}
