package controllers

import (
	"errors"

	"github.com/yangpin97/cisco-client-portal/asset"
	"github.com/yangpin97/cisco-client-portal/clients"
	"github.com/yangpin97/cisco-client-portal/credential"
	"github.com/yangpin97/cisco-client-portal/document"
	"github.com/yangpin97/cisco-client-portal/types"
)

// DocumentStore is what the controllers need from document.Store.
type DocumentStore interface {
	Load() *types.Document
	Update(fn func(doc *types.Document) error) (*types.Document, error)
}

var _ DocumentStore = (*document.Store)(nil)

// failureMessage turns a domain error into the message shown in the admin UI.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, clients.ErrIndexOutOfRange):
		return "Client does not exist"
	case errors.Is(err, clients.ErrValidation):
		return "Name and download URL are required"
	case errors.Is(err, clients.ErrInvalidDirection):
		return "Clients can only move one place up or down"
	case errors.Is(err, credential.ErrMissingOldPassword):
		return "Enter the current password to set a new one"
	case errors.Is(err, credential.ErrWrongPassword):
		return "Current password is incorrect"
	case errors.Is(err, credential.ErrEmptyUsername):
		return "Username must not be empty"
	case errors.Is(err, asset.ErrNoFileProvided):
		return "No file uploaded"
	case errors.Is(err, asset.ErrUnknownChannel):
		return "Unknown QR code type"
	case errors.Is(err, asset.ErrInvalidName):
		return "Invalid file name"
	case errors.Is(err, asset.ErrFileTooLarge):
		return "File is larger than 10 MB"
	case errors.Is(err, document.ErrInvalidSection):
		return "Invalid value in submitted form"
	case errors.Is(err, document.ErrUnreadable):
		return "Saved data is unreadable, fix or remove the data file first"
	case errors.Is(err, document.ErrPersist):
		return "Failed to save changes"
	default:
		return "Server error"
	}
}
