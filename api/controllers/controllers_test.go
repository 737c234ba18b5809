package controllers

import (
	"bytes"
	"encoding/json"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yangpin97/cisco-client-portal/asset"
	"github.com/yangpin97/cisco-client-portal/clients"
	"github.com/yangpin97/cisco-client-portal/document"
	"github.com/yangpin97/cisco-client-portal/tool"
)

type testEnv struct {
	router    *gin.Engine
	store     *document.Store
	publicDir string
}

// setupRouter creates a test router over a fresh store in a temp dir
func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	publicDir := filepath.Join(root, "public")
	store := document.New(filepath.Join(root, "data.json"))
	metrics := tool.NewMetrics()
	placement := asset.New(filepath.Join(publicDir, "img"), "img", tool.DefaultQRChannels)

	dataCtrl := NewDataController(store)
	authCtrl := NewAuthController(store, metrics)
	sectionCtrl := NewSectionController(store, metrics)
	clientCtrl := NewClientController(store, metrics)
	uploadCtrl := NewUploadController(store, placement, metrics)
	pageCtrl := NewPageController(publicDir)

	router := gin.New()
	api := router.Group("/api")
	{
		api.GET("/data", dataCtrl.HandleGetData)
		api.POST("/login", authCtrl.HandleLogin)
		api.POST("/update-admin", authCtrl.HandleUpdateAdmin)
		api.POST("/update-texts", sectionCtrl.HandleUpdate(document.SectionTexts))
		api.POST("/update-manuals", sectionCtrl.HandleUpdate(document.SectionManuals))
		api.POST("/update-header-nav", sectionCtrl.HandleUpdate(document.SectionHeaderNav))
		api.POST("/update-banner", sectionCtrl.HandleUpdate(document.SectionBanner))
		api.POST("/upload-qr", uploadCtrl.HandleUploadQR)
		api.POST("/upload-image", uploadCtrl.HandleUploadImage)
		api.POST("/generate-qr", uploadCtrl.HandleGenerateQR)
		api.GET("/qr-preview", HandleQRPreview)
		api.POST("/add-client", clientCtrl.HandleAddClient)
		api.POST("/update-client", clientCtrl.HandleUpdateClient)
		api.POST("/remove-client", clientCtrl.HandleRemoveClient)
		api.POST("/move-client", clientCtrl.HandleMoveClient)
		api.POST("/save-clients", clientCtrl.HandleSaveClients)
	}
	router.GET("/login", pageCtrl.HandleAdminPage)
	router.NoRoute(pageCtrl.HandleStatic)

	return &testEnv{router: router, store: store, publicDir: publicDir}
}

type apiResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Path    string              `json:"path"`
	Clients []map[string]string `json:"clients"`
}

func (env *testEnv) postJSON(t *testing.T, path string, body any) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w, decodeResponse(t, w)
}

func (env *testEnv) postFile(t *testing.T, path, field, fileName string, content []byte, fields map[string]string) apiResponse {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if field != "" {
		fw, err := mw.CreateFormFile(field, fileName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s: status %d, body %s", path, w.Code, w.Body.String())
	}
	return decodeResponse(t, w)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
	return resp
}

func TestHandleGetDataOmitsAdmin(t *testing.T) {
	env := setupRouter(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body["admin"]; ok {
		t.Error("admin section exposed")
	}
	for _, key := range []string{"texts", "downloads", "manuals", "qrcodes", "headerNav", "banner", "openConnectClients", "customClients"} {
		if _, ok := body[key]; !ok {
			t.Errorf("%s missing", key)
		}
	}
}

func TestHandleLogin(t *testing.T) {
	env := setupRouter(t)

	_, resp := env.postJSON(t, "/api/login", map[string]string{"username": "admin", "password": "admin"})
	if !resp.Success {
		t.Errorf("default credentials rejected: %+v", resp)
	}

	_, resp = env.postJSON(t, "/api/login", map[string]string{"username": "admin", "password": "nope"})
	if resp.Success || resp.Message == "" {
		t.Errorf("wrong password accepted: %+v", resp)
	}

	w, _ := env.postJSON(t, "/api/login", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", w.Code)
	}
}

func TestHandleUpdateAdminRequiresOldPassword(t *testing.T) {
	env := setupRouter(t)

	_, resp := env.postJSON(t, "/api/update-admin", map[string]string{"username": "bob", "newPassword": "x"})
	if resp.Success {
		t.Fatal("password changed without the old one")
	}
	if resp.Message != "Enter the current password to set a new one" {
		t.Errorf("message = %q", resp.Message)
	}
	if got := env.store.Load().Admin.Username; got != "admin" {
		t.Errorf("username = %q, want admin", got)
	}

	_, resp = env.postJSON(t, "/api/update-admin", map[string]string{"username": "bob", "oldPassword": "admin", "newPassword": "x"})
	if !resp.Success {
		t.Fatalf("rotate failed: %+v", resp)
	}
	_, resp = env.postJSON(t, "/api/login", map[string]string{"username": "bob", "password": "x"})
	if !resp.Success {
		t.Error("new credentials rejected")
	}
}

func TestHandleUpdateTextsMerges(t *testing.T) {
	env := setupRouter(t)

	_, resp := env.postJSON(t, "/api/update-texts", map[string]string{"subtitle": "Updated"})
	if !resp.Success {
		t.Fatalf("update failed: %+v", resp)
	}
	doc := env.store.Load()
	if doc.Texts["subtitle"] != "Updated" {
		t.Errorf("subtitle = %q", doc.Texts["subtitle"])
	}
	if doc.Texts["title"] != "Cisco Secure Client" {
		t.Errorf("title lost: %q", doc.Texts["title"])
	}
}

func TestHandleUpdateManualsLegacyShape(t *testing.T) {
	env := setupRouter(t)

	_, resp := env.postJSON(t, "/api/update-manuals", map[string]any{"windows": map[string]string{"link1": "https://x"}})
	if !resp.Success {
		t.Fatalf("update failed: %+v", resp)
	}
	if got := env.store.Load().Manuals.Windows; got != "https://x" {
		t.Errorf("windows = %q", got)
	}
}

func TestHandleUpdateHeaderNavInvalidValue(t *testing.T) {
	env := setupRouter(t)

	_, resp := env.postJSON(t, "/api/update-header-nav", map[string]any{"btn1": "not a button"})
	if resp.Success {
		t.Fatal("invalid header button accepted")
	}
	if resp.Message != "Invalid value in submitted form" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestHandleAddClientToEmptyStore(t *testing.T) {
	env := setupRouter(t)

	_, resp := env.postJSON(t, "/api/add-client", map[string]string{"name": "X", "url": "https://x", "type": "custom"})
	if !resp.Success {
		t.Fatalf("add failed: %+v", resp)
	}
	if len(resp.Clients) != 1 || resp.Clients[0]["icon"] != clients.DefaultIcon {
		t.Errorf("clients = %+v", resp.Clients)
	}
	doc := env.store.Load()
	if len(doc.CustomClients) != 1 || len(doc.OpenConnectClients) != 0 {
		t.Errorf("custom = %d, openConnect = %d", len(doc.CustomClients), len(doc.OpenConnectClients))
	}

	_, resp = env.postJSON(t, "/api/add-client", map[string]string{"name": "", "url": "https://x"})
	if resp.Success || resp.Message != "Name and download URL are required" {
		t.Errorf("invalid entry response = %+v", resp)
	}
}

func TestHandleClientEditing(t *testing.T) {
	env := setupRouter(t)
	for _, name := range []string{"A", "B", "C"} {
		if _, resp := env.postJSON(t, "/api/add-client", map[string]string{"name": name, "url": "https://" + name}); !resp.Success {
			t.Fatalf("add %s failed: %+v", name, resp)
		}
	}
	order := func() string {
		var out []string
		for _, e := range env.store.Load().OpenConnectClients {
			out = append(out, e.Name)
		}
		return strings.Join(out, ",")
	}

	_, resp := env.postJSON(t, "/api/move-client", map[string]any{"index": 0, "direction": -1})
	if resp.Success || resp.Message != "Client does not exist" {
		t.Errorf("move(0,-1) = %+v", resp)
	}
	if got := order(); got != "A,B,C" {
		t.Errorf("order after rejected move = %s", got)
	}

	_, resp = env.postJSON(t, "/api/move-client", map[string]any{"index": 0, "direction": 1})
	if !resp.Success || len(resp.Clients) != 3 || resp.Clients[0]["name"] != "B" {
		t.Errorf("move(0,1) = %+v", resp)
	}

	_, resp = env.postJSON(t, "/api/move-client", map[string]any{"index": 1, "direction": 3})
	if resp.Success || resp.Message != "Clients can only move one place up or down" {
		t.Errorf("move(1,3) = %+v", resp)
	}

	_, resp = env.postJSON(t, "/api/update-client", map[string]any{"index": 2, "name": "C2", "url": "https://c2"})
	if !resp.Success {
		t.Errorf("update = %+v", resp)
	}
	_, resp = env.postJSON(t, "/api/update-client", map[string]any{"name": "nowhere", "url": "https://n"})
	if resp.Success {
		t.Error("update without index accepted")
	}

	_, resp = env.postJSON(t, "/api/remove-client", map[string]any{"index": 0})
	if !resp.Success || len(resp.Clients) != 2 {
		t.Errorf("remove = %+v", resp)
	}
	_, resp = env.postJSON(t, "/api/remove-client", map[string]any{"index": 5})
	if resp.Success {
		t.Error("remove out of range accepted")
	}
	if got := order(); got != "A,C2" {
		t.Errorf("order = %s, want A,C2", got)
	}

	_, resp = env.postJSON(t, "/api/save-clients", map[string]any{
		"clients": []map[string]string{{"name": "C2", "url": "https://c2"}, {"name": "A", "url": "https://A"}},
	})
	if !resp.Success {
		t.Errorf("save = %+v", resp)
	}
	if got := order(); got != "C2,A" {
		t.Errorf("order = %s, want C2,A", got)
	}
}

func TestHandleUploadQR(t *testing.T) {
	env := setupRouter(t)

	resp := env.postFile(t, "/api/upload-qr", "qrImage", "code.png", []byte("png-bytes"), map[string]string{"type": "ios"})
	if !resp.Success || resp.Path != "img/qr-ios.png" {
		t.Fatalf("upload-qr = %+v", resp)
	}
	if got := env.store.Load().QRCodes["ios"]; got != "img/qr-ios.png" {
		t.Errorf("qrcodes.ios = %q", got)
	}
	if _, err := os.Stat(filepath.Join(env.publicDir, "img", "qr-ios.png")); err != nil {
		t.Errorf("file not stored: %v", err)
	}

	resp = env.postFile(t, "/api/upload-qr", "qrImage", "code.png", []byte("png-bytes"), map[string]string{"type": "wechat"})
	if resp.Success || resp.Message != "Unknown QR code type" {
		t.Errorf("unknown channel = %+v", resp)
	}

	resp = env.postFile(t, "/api/upload-qr", "", "", nil, map[string]string{"type": "ios"})
	if resp.Success || resp.Message != "No file uploaded" {
		t.Errorf("missing file = %+v", resp)
	}
}

func TestHandleUploadImage(t *testing.T) {
	env := setupRouter(t)

	resp := env.postFile(t, "/api/upload-image", "image", "banner.jpg", []byte("jpg"), nil)
	if !resp.Success || resp.Path != "img/banner.jpg" {
		t.Fatalf("upload-image = %+v", resp)
	}
	if len(env.store.Load().QRCodes) != 2 {
		t.Error("upload-image must not touch qrcodes")
	}
}

func TestHandleUploadImageTooLarge(t *testing.T) {
	env := setupRouter(t)

	resp := env.postFile(t, "/api/upload-image", "image", "huge.png", make([]byte, maxUploadSize+1), nil)
	if resp.Success || resp.Message != "File is larger than 10 MB" {
		t.Errorf("upload-image = %+v", resp)
	}
}

func TestHandleUpdateRefusesUnreadableData(t *testing.T) {
	env := setupRouter(t)
	if err := os.WriteFile(env.store.Path(), []byte(`{broken`), 0o600); err != nil {
		t.Fatal(err)
	}

	_, resp := env.postJSON(t, "/api/update-texts", map[string]any{"title": "x"})
	if resp.Success || resp.Message != "Saved data is unreadable, fix or remove the data file first" {
		t.Errorf("update-texts = %+v", resp)
	}
}

func TestHandleGenerateQR(t *testing.T) {
	env := setupRouter(t)

	_, resp := env.postJSON(t, "/api/generate-qr", map[string]any{"type": "consulting", "content": "https://example.com/contact"})
	if !resp.Success || resp.Path != "img/qr-consulting.png" {
		t.Fatalf("generate-qr = %+v", resp)
	}
	if got := env.store.Load().QRCodes["consulting"]; got != "img/qr-consulting.png" {
		t.Errorf("qrcodes.consulting = %q", got)
	}
}

func TestHandleQRPreview(t *testing.T) {
	env := setupRouter(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/qr-preview?size=120x120&data=https%3A%2F%2Fexample.com", nil))
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("status %d, type %q", w.Code, w.Header().Get("Content-Type"))
	}

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/qr-preview?size=5000&data=x", nil))
	cfg, err := png.DecodeConfig(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != asset.MaxQRSize {
		t.Errorf("oversize preview width = %d, want %d", cfg.Width, asset.MaxQRSize)
	}

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/qr-preview", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing data status = %d", w.Code)
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int{"200x200": 200, "150": 150, "": 0, "abc": 0, "-5": 0}
	for in, want := range tests {
		if got := parseSize(in); got != want {
			t.Errorf("parseSize(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestPages(t *testing.T) {
	env := setupRouter(t)
	files := map[string]string{
		"index.html":      "<h1>portal</h1>",
		"admin.html":      "<h1>admin</h1>",
		"img/logo.svg":    "<svg/>",
		"../data.secrets": "secret-admin-hash",
	}
	for name, content := range files {
		full := filepath.Join(env.publicDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	if w := get("/login"); w.Code != http.StatusOK || w.Body.String() != files["admin.html"] {
		t.Errorf("/login = %d %q", w.Code, w.Body.String())
	}
	if w := get("/"); w.Code != http.StatusOK || w.Body.String() != files["index.html"] {
		t.Errorf("/ = %d %q", w.Code, w.Body.String())
	}
	if w := get("/some/client/route"); w.Code != http.StatusOK || w.Body.String() != files["index.html"] {
		t.Errorf("fallback = %d %q", w.Code, w.Body.String())
	}
	if w := get("/img/logo.svg"); w.Code != http.StatusOK || w.Body.String() != files["img/logo.svg"] {
		t.Errorf("asset = %d %q", w.Code, w.Body.String())
	}
	if w := get("/img/../../data.secrets"); strings.Contains(w.Body.String(), "secret-admin-hash") {
		t.Error("file outside the public dir served")
	}
	if w := get("/api/unknown"); w.Code != http.StatusNotFound {
		t.Errorf("/api/unknown = %d", w.Code)
	}
}
