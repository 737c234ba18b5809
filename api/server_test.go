package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/yangpin97/cisco-client-portal/document"
	"github.com/yangpin97/cisco-client-portal/tool"
	"github.com/yangpin97/cisco-client-portal/types"
)

func newTestServer(t *testing.T, adminLocalOnly bool) (*Server, *document.Store) {
	t.Helper()
	root := t.TempDir()
	cfg := types.AppConfig{
		Port:           0,
		DataPath:       filepath.Join(root, "data.json"),
		PublicDir:      filepath.Join(root, "public"),
		UploadSubdir:   "img",
		QRChannels:     tool.DefaultQRChannels,
		AdminLocalOnly: adminLocalOnly,
		Login:          types.LoginLimitConfig{Rate: 0.001, Burst: 2, IdleTTL: time.Minute},
	}
	store := document.New(cfg.DataPath)
	return NewServer(cfg, store, tool.NewMetrics()), store
}

func post(h http.Handler, path, body, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if remote != "" {
		req.RemoteAddr = remote
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestLoginIsThrottled(t *testing.T) {
	srv, _ := newTestServer(t, false)
	h := srv.Handler()

	body := `{"username":"admin","password":"wrong"}`
	for i := 0; i < 2; i++ {
		if w := post(h, "/api/login", body, ""); w.Code != http.StatusOK {
			t.Fatalf("attempt %d: status %d", i+1, w.Code)
		}
	}
	if w := post(h, "/api/login", body, ""); w.Code != http.StatusTooManyRequests {
		t.Errorf("third attempt status = %d, want 429", w.Code)
	}
	// another client is not affected
	if w := post(h, "/api/login", body, "198.51.100.7:5000"); w.Code != http.StatusOK {
		t.Errorf("other client status = %d", w.Code)
	}
}

func TestAdminLocalOnly(t *testing.T) {
	srv, store := newTestServer(t, true)
	h := srv.Handler()

	if w := post(h, "/api/update-texts", `{"title":"remote"}`, "192.0.2.10:5000"); w.Code != http.StatusForbidden {
		t.Errorf("remote admin status = %d, want 403", w.Code)
	}
	if w := post(h, "/api/update-texts", `{"title":"local"}`, "127.0.0.1:5000"); w.Code != http.StatusOK {
		t.Errorf("local admin status = %d", w.Code)
	}
	if got := store.Load().Texts["title"]; got != "local" {
		t.Errorf("title = %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	req.RemoteAddr = "192.0.2.10:5000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("public data status = %d", w.Code)
	}
}

func TestDocumentUpdatesAreBroadcast(t *testing.T) {
	srv, store := newTestServer(t, false)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/notify-ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := store.Update(func(doc *types.Document) error {
		doc.Texts["title"] = "changed"
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var n types.Notification
	if err := sonic.Unmarshal(payload, &n); err != nil {
		t.Fatal(err)
	}
	if n.Type != types.NotifyTypeDocumentUpdated {
		t.Errorf("type = %q", n.Type)
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	srv, _ := newTestServer(t, false)
	if err := srv.Shutdown(t.Context()); err != nil {
		t.Errorf("Shutdown = %v", err)
	}
	if err := srv.StartMetrics(); err != nil {
		t.Errorf("StartMetrics with port 0 = %v", err)
	}
}
