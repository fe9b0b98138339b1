package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"lacquer/internal/api"
	"lacquer/internal/catalog"
	"lacquer/internal/config"
	"lacquer/internal/daemon"
	"lacquer/internal/testsupport"
)

func startDaemon(t *testing.T, opts ...testsupport.ConfigOption) (*daemon.Daemon, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	d, err := daemon.New(cfg, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		d.Stop()
		_ = d.Close()
	})
	return d, cfg
}

func seedCatalog(t *testing.T, cfg *config.Config) int64 {
	t.Helper()
	database := testsupport.MustOpenDB(t, cfg)
	store := catalog.NewStore(database)
	return testsupport.SeedShade(t, store, "OPI", "Bubble Bath", "creme")
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	d, cfg := startDaemon(t)
	shadeID := seedCatalog(t, cfg)
	base := "http://" + d.Addr()

	var created api.SessionResponse
	resp := doJSON(t, http.MethodPost, base+"/api/sessions", api.StartSessionRequest{UserID: "ada"}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	if created.Session.ID == "" || created.Session.Status != "processing" {
		t.Fatalf("created = %+v", created.Session)
	}

	sessionURL := base + "/api/sessions/" + created.Session.ID
	frameReq := api.AddFrameRequest{
		FrameType: "label",
		Evidence:  json.RawMessage(`{"extracted":{"brand":"OPI","shadeName":"Bubble Bath"}}`),
	}
	resp = doJSON(t, http.MethodPost, sessionURL+"/frames", frameReq, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add frame status = %d", resp.StatusCode)
	}

	var detail api.SessionDetail
	resp = doJSON(t, http.MethodPost, sessionURL+"/finalize", nil, &detail)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("finalize status = %d", resp.StatusCode)
	}
	if detail.Session.Status != "matched" || detail.Session.AcceptedEntityID != shadeID {
		t.Fatalf("finalize detail = %+v", detail.Session)
	}

	var inv api.InventoryListResponse
	resp = doJSON(t, http.MethodGet, base+"/api/inventory?user=ada", nil, &inv)
	if resp.StatusCode != http.StatusOK || len(inv.Items) != 1 || inv.Items[0].ShadeID != shadeID {
		t.Fatalf("inventory status = %d items = %+v", resp.StatusCode, inv.Items)
	}
}

func TestUnknownSessionReturns404(t *testing.T) {
	d, _ := startDaemon(t)
	resp := doJSON(t, http.MethodGet, "http://"+d.Addr()+"/api/sessions/no-such-id", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestFrameOnTerminalSessionReturns409(t *testing.T) {
	d, cfg := startDaemon(t)
	seedCatalog(t, cfg)
	base := "http://" + d.Addr()

	var created api.SessionResponse
	doJSON(t, http.MethodPost, base+"/api/sessions", api.StartSessionRequest{}, &created)
	sessionURL := base + "/api/sessions/" + created.Session.ID

	frameReq := api.AddFrameRequest{
		FrameType: "label",
		Evidence:  json.RawMessage(`{"extracted":{"brand":"OPI","shadeName":"Bubble Bath"}}`),
	}
	doJSON(t, http.MethodPost, sessionURL+"/frames", frameReq, nil)
	doJSON(t, http.MethodPost, sessionURL+"/finalize", nil, nil)

	resp := doJSON(t, http.MethodPost, sessionURL+"/frames", frameReq, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestInvalidFrameTypeReturns400(t *testing.T) {
	d, _ := startDaemon(t)
	base := "http://" + d.Addr()

	var created api.SessionResponse
	doJSON(t, http.MethodPost, base+"/api/sessions", api.StartSessionRequest{}, &created)

	resp := doJSON(t, http.MethodPost, base+"/api/sessions/"+created.Session.ID+"/frames",
		api.AddFrameRequest{FrameType: "hologram"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCatalogSearchEndpoint(t *testing.T) {
	d, cfg := startDaemon(t)
	shadeID := seedCatalog(t, cfg)
	base := "http://" + d.Addr()

	var result api.SearchResponse
	resp := doJSON(t, http.MethodGet, base+"/api/catalog/search?q=bubble+bath&brand=OPI", nil, &result)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].ShadeID != shadeID {
		t.Fatalf("candidates = %+v", result.Candidates)
	}

	resp = doJSON(t, http.MethodGet, base+"/api/catalog/search", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty query status = %d, want 400", resp.StatusCode)
	}
}

func TestBearerTokenRequired(t *testing.T) {
	d, _ := startDaemon(t, testsupport.WithAPIToken("sekrit"))
	url := "http://" + d.Addr() + "/api/status"

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("authed get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status with token = %d", resp.StatusCode)
	}
	var status api.DaemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.Running {
		t.Fatalf("status = %+v, want running", status)
	}
}

func TestSecondDaemonCannotTakeLock(t *testing.T) {
	d, cfg := startDaemon(t)
	_ = d

	second, err := daemon.New(cfg, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	defer second.Close()
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second daemon acquired the lock")
	}
}
