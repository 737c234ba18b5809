package document

import (
	_ "embed"
	"sync"

	"github.com/yangpin97/cisco-client-portal/credential"
	"github.com/yangpin97/cisco-client-portal/tool"
	"github.com/yangpin97/cisco-client-portal/types"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin"
)

// packagedDefault seeds a fresh data file when no seed file is configured.
//
//go:embed default.json
var packagedDefault []byte

var defaultAdminHash = sync.OnceValues(func() (string, error) {
	return credential.Hash(DefaultAdminPassword)
})

// DefaultAdmin returns the first-boot credential pair (admin/admin).
func DefaultAdmin() types.Admin {
	hash, err := defaultAdminHash()
	if err != nil {
		tool.DefaultLogger.Errorf("[Store] Failed to hash default admin password: %v", err)
	}
	return types.Admin{Username: DefaultAdminUsername, PasswordHash: hash}
}

// HardcodedDefault is the minimal document used when neither the data file
// nor any seed can be read.
func HardcodedDefault() *types.Document {
	doc := &types.Document{
		Admin:     DefaultAdmin(),
		Texts:     types.Texts{},
		Downloads: types.Downloads{},
		QRCodes:   map[string]string{},
	}
	Normalize(doc)
	return doc
}
