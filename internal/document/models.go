// Package document tracks references to files held by the external document
// storage collaborator. Only the stable storage reference and the owning
// client matter here; bytes never pass through this service.
package document

import (
	"time"

	id "bimadesk/pkg/domain"
)

// Document is one uploaded file reference owned by a client.
type Document struct {
	ID         id.DocumentID `json:"id"`
	ClientID   id.ClientID   `json:"clientId"`
	Type       string        `json:"type"`
	StorageRef string        `json:"storageRef"`
	FileName   string        `json:"fileName"`
	UploadedAt time.Time     `json:"uploadedAt"`
}
