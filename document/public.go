package document

import "github.com/yangpin97/cisco-client-portal/types"

// PublicView drops the admin section. Everything an unauthenticated caller
// sees must pass through here.
func PublicView(doc *types.Document) *types.PublicDocument {
	return &types.PublicDocument{
		Texts:              doc.Texts,
		Downloads:          doc.Downloads,
		Manuals:            doc.Manuals,
		QRCodes:            doc.QRCodes,
		HeaderNav:          doc.HeaderNav,
		Banner:             doc.Banner,
		OpenConnectClients: doc.OpenConnectClients,
		CustomClients:      doc.CustomClients,
		Extra:              doc.Extra,
	}
}
