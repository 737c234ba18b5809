package document

import (
	"strconv"

	"github.com/yangpin97/cisco-client-portal/types"
)

// legacyNavButtons are the header buttons older documents kept as flat
// texts.headerBtnN{Text,Url,Visible} keys.
var legacyNavButtons = []struct {
	key  string
	text string
}{
	{"btn1", "Consulting"},
	{"btn2", "Official Site"},
	{"btn3", "Blog"},
}

// Normalize brings a decoded document to the current schema. Steps run in
// order: section defaults, headerNav synthesis, manuals shape. Running it on
// an already normalized document changes nothing.
func Normalize(doc *types.Document) {
	fillSections(doc)
	if doc.HeaderNav == nil {
		doc.HeaderNav = synthesizeHeaderNav(doc.Texts)
	}
	doc.Manuals = types.ManualsFromLinks(doc.Manuals.Links())
}

func fillSections(doc *types.Document) {
	if doc.Admin.Username == "" && doc.Admin.PasswordHash == "" {
		doc.Admin = DefaultAdmin()
	}
	if doc.Texts == nil {
		doc.Texts = types.Texts{}
	}
	if doc.Downloads == nil {
		doc.Downloads = types.Downloads{}
	}
	if doc.QRCodes == nil {
		doc.QRCodes = map[string]string{}
	}
	if doc.OpenConnectClients == nil {
		doc.OpenConnectClients = []types.ClientEntry{}
	}
	if doc.CustomClients == nil {
		doc.CustomClients = []types.ClientEntry{}
	}
}

func synthesizeHeaderNav(texts types.Texts) types.HeaderNav {
	nav := make(types.HeaderNav, len(legacyNavButtons))
	for i, b := range legacyNavButtons {
		prefix := "headerBtn" + strconv.Itoa(i+1)
		nav[b.key] = types.NavButton{
			Text:    orDefault(texts[prefix+"Text"], b.text),
			URL:     orDefault(texts[prefix+"Url"], "#"),
			Visible: texts[prefix+"Visible"] != "false",
		}
	}
	return nav
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
