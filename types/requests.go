package types

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateAdminRequest is the body of POST /api/update-admin.
type UpdateAdminRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ClientRequest is the body of add-client, update-client and remove-client.
// Index is only read by update/remove; nil means it was not sent.
type ClientRequest struct {
	ClientEntry
	Index *int   `json:"index"`
	Type  string `json:"type"`
}

// MoveClientRequest is the body of POST /api/move-client.
type MoveClientRequest struct {
	Index     *int   `json:"index"`
	Direction int    `json:"direction"`
	Type      string `json:"type"`
}

// SaveClientsRequest is the body of POST /api/save-clients.
type SaveClientsRequest struct {
	Clients []ClientEntry `json:"clients"`
	Type    string        `json:"type"`
}

// GenerateQRRequest is the body of POST /api/generate-qr.
type GenerateQRRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Size    int    `json:"size"`
}
