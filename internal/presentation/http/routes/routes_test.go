package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/bannerstack-go/internal/application/container"
	schemadb "github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/bannerstack-go/pkg/config"
)

const testSecret = "routes-test-secret"

type testApp struct {
	router *gin.Engine
	c      *container.Container
	token  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.JWTSecret = testSecret
	config.JWTIssuer = ""
	config.MediaDirectory = t.TempDir()

	logger := logging.NewDiscardLogger()
	db, err := database.Open(database.Settings{Driver: database.DriverSQLite, SQLitePath: ":memory:"}, logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := schemadb.NewTableCreator().CreateSchema(context.Background(), db.DB); err != nil {
		t.Fatalf("schema: %v", err)
	}

	c := container.NewContainer(db, logger, performance.NewTracker(nil))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.EditorHub.Run(ctx)

	token, err := security.GenerateAdminToken("operator", testSecret, "", time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return &testApp{router: SetupRoutes(c), c: c, token: token}
}

func (a *testApp) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) createBanner(t *testing.T, body string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/admin/banners", body, a.token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", w.Code, w.Body.String())
	}
	var res struct {
		Banner struct {
			ID string `json:"id"`
		} `json:"banner"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil || res.Banner.ID == "" {
		t.Fatalf("create response %s: %v", w.Body.String(), err)
	}
	return res.Banner.ID
}

const saleBanner = `{
	"title": "Summer Sale",
	"imageUrl": "https://cdn.example.com/bg.jpg",
	"textElements": [
		{"id":"t1","content":"Up to 50% off","x":20,"y":30},
		{"id":"i1","imageUrl":"https://cdn.example.com/shoe.webp","productId":42,"x":70,"y":60,"width":20}
	]
}`

func TestAdminRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	if w := app.do(t, http.MethodGet, "/api/v1/admin/banners", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", w.Code)
	}
	if w := app.do(t, http.MethodGet, "/api/v1/admin/banners", "", "not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d", w.Code)
	}

	ticket, err := security.GenerateEditorTicket("operator", "b1", testSecret, "", time.Minute)
	if err != nil {
		t.Fatalf("ticket: %v", err)
	}
	if w := app.do(t, http.MethodGet, "/api/v1/admin/banners", "", ticket); w.Code != http.StatusForbidden {
		t.Fatalf("ticket as admin token status = %d", w.Code)
	}
	if w := app.do(t, http.MethodGet, "/api/v1/admin/banners", "", app.token); w.Code != http.StatusOK {
		t.Fatalf("admin token status = %d", w.Code)
	}
}

func TestBannerLifecycle(t *testing.T) {
	app := newTestApp(t)
	id := app.createBanner(t, saleBanner)

	w := app.do(t, http.MethodGet, "/api/v1/admin/banners/"+id, "", app.token)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Up to 50% off") {
		t.Fatalf("get status = %d body = %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodGet, "/api/v1/banners", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":1`) {
		t.Fatalf("storefront json = %d %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodGet, "/banners/"+id, "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "bs-storefront") {
		t.Fatalf("storefront html = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/product/42") {
		t.Fatalf("product link missing from storefront markup")
	}

	// omitting textElements keeps the stored list
	w = app.do(t, http.MethodPut, "/api/v1/admin/banners/"+id,
		`{"title":"Hidden","imageUrl":"https://cdn.example.com/bg.jpg","isActive":false}`, app.token)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Up to 50% off") {
		t.Fatalf("update = %d %s", w.Code, w.Body.String())
	}
	if w = app.do(t, http.MethodGet, "/banners/"+id, "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("inactive storefront status = %d", w.Code)
	}

	if w = app.do(t, http.MethodDelete, "/api/v1/admin/banners/"+id, "", app.token); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w = app.do(t, http.MethodGet, "/api/v1/admin/banners/"+id, "", app.token); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", w.Code)
	}
}

func TestCreateBannerValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/v1/admin/banners",
		`{"imageUrl":"https://cdn.example.com/bg.jpg","textElements":[{"content":"a","x":150,"y":20}]}`, app.token)
	if w.Code != http.StatusUnprocessableEntity || !strings.Contains(w.Body.String(), "textElements[0].x") {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	if w = app.do(t, http.MethodPost, "/api/v1/admin/banners", `{"title":`, app.token); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", w.Code)
	}
}

func TestReorderBanners(t *testing.T) {
	app := newTestApp(t)
	a := app.createBanner(t, saleBanner)
	b := app.createBanner(t, `{"title":"Second","imageUrl":"https://cdn.example.com/b.jpg","order":1}`)

	if w := app.do(t, http.MethodPut, "/api/v1/admin/banners/reorder", `[]`, app.token); w.Code != http.StatusBadRequest {
		t.Fatalf("empty reorder status = %d", w.Code)
	}
	if w := app.do(t, http.MethodPut, "/api/v1/admin/banners/reorder", `[{"id":"","order":1}]`, app.token); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid reorder status = %d", w.Code)
	}

	body := `[{"id":"` + a + `","order":1},{"id":"` + b + `","order":0}]`
	if w := app.do(t, http.MethodPut, "/api/v1/admin/banners/reorder", body, app.token); w.Code != http.StatusOK {
		t.Fatalf("reorder status = %d body = %s", w.Code, w.Body.String())
	}

	w := app.do(t, http.MethodGet, "/api/v1/admin/banners", "", app.token)
	var res struct {
		Banners []struct {
			ID string `json:"id"`
		} `json:"banners"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Banners) != 2 || res.Banners[0].ID != b {
		t.Fatalf("order after reorder = %+v", res.Banners)
	}
}

func TestValidateAndPreview(t *testing.T) {
	app := newTestApp(t)
	id := app.createBanner(t, saleBanner)

	w := app.do(t, http.MethodPost, "/api/v1/admin/banners/validate",
		`[{"content":"ok","x":1,"y":1},{"content":"x","imageUrl":"y"}]`, app.token)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"dropped"`) {
		t.Fatalf("validate = %d %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodGet, "/api/v1/admin/banners/"+id+"/preview?viewport=mobile&format=fragment", "", app.token)
	if w.Code != http.StatusOK {
		t.Fatalf("preview status = %d", w.Code)
	}
	html := w.Body.String()
	if !strings.Contains(html, "bs-preview") || strings.Contains(html, "<!DOCTYPE") {
		t.Fatalf("fragment = %s", html)
	}

	w = app.do(t, http.MethodGet, "/api/v1/admin/banners/"+id+"/preview", "", app.token)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<html") {
		t.Fatalf("preview page = %d", w.Code)
	}

	if w = app.do(t, http.MethodGet, "/api/v1/admin/banners/missing/preview", "", app.token); w.Code != http.StatusNotFound {
		t.Fatalf("missing preview status = %d", w.Code)
	}
}

func TestHealthAndLogLevels(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"database":"ok"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id header missing")
	}
	if !strings.Contains(w.Body.String(), `"alerts":[`) {
		t.Fatalf("health should list performance alerts: %s", w.Body.String())
	}

	if w := app.do(t, http.MethodGet, "/api/v1/banners", "", ""); w.Code != http.StatusOK {
		t.Fatalf("storefront list = %d", w.Code)
	}
	if w := app.do(t, http.MethodGet, "/banners", "", ""); w.Code != http.StatusOK {
		t.Fatalf("storefront page = %d", w.Code)
	}
	snapshot := app.c.PerfTracker.TakeSnapshot()
	if snapshot.Banner.RepositoryQuery == nil || snapshot.Banner.Render == nil {
		t.Fatalf("banner snapshot slots not filled: %+v", snapshot.Banner)
	}

	w = app.do(t, http.MethodPut, "/api/v1/admin/logs/levels", `{"channel":"editor","level":"DEBUG"}`, app.token)
	if w.Code != http.StatusOK {
		t.Fatalf("set level = %d %s", w.Code, w.Body.String())
	}
	w = app.do(t, http.MethodGet, "/api/v1/admin/logs/levels", "", app.token)
	if !strings.Contains(w.Body.String(), `"editor":"DEBUG"`) {
		t.Fatalf("levels = %s", w.Body.String())
	}
}

func TestEditorSocketSession(t *testing.T) {
	app := newTestApp(t)
	id := app.createBanner(t, saleBanner)
	other := app.createBanner(t, `{"title":"Other","imageUrl":"https://cdn.example.com/o.jpg"}`)

	w := app.do(t, http.MethodPost, "/api/v1/admin/banners/"+id+"/editor-ticket", "", app.token)
	if w.Code != http.StatusOK {
		t.Fatalf("ticket status = %d", w.Code)
	}
	var ticket struct {
		Ticket string `json:"ticket"`
		Path   string `json:"path"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ticket); err != nil || ticket.Ticket == "" {
		t.Fatalf("ticket response %s: %v", w.Body.String(), err)
	}

	if w = app.do(t, http.MethodGet, "/api/v1/admin/editor/"+other+"/ws", "", ticket.Ticket); w.Code != http.StatusForbidden {
		t.Fatalf("ticket for other banner status = %d", w.Code)
	}

	srv := httptest.NewServer(app.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+ticket.Path, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	state := readEvent(t, conn)
	if state["type"] != "state" || !strings.Contains(state["html"].(string), "bs-preview") {
		t.Fatalf("initial event = %v", state)
	}

	send(t, conn, `{"type":"addText","content":"New line"}`)
	state = readEvent(t, conn)
	if state["type"] != "state" || state["dirty"] != true || len(state["elements"].([]any)) != 3 {
		t.Fatalf("after addText = %v", state)
	}

	send(t, conn, `{"type":"bogus"}`)
	if ev := readEvent(t, conn); ev["type"] != "error" {
		t.Fatalf("unknown command event = %v", ev)
	}

	send(t, conn, `{"type":"save"}`)
	if ev := readEvent(t, conn); ev["type"] != "saved" {
		t.Fatalf("save event = %v", ev)
	}

	w = app.do(t, http.MethodGet, "/api/v1/admin/banners/"+id, "", app.token)
	if !strings.Contains(w.Body.String(), "New line") {
		t.Fatalf("saved banner = %s", w.Body.String())
	}
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readEvent returns the next session event, skipping hub presence notices.
func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	for {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var ev map[string]any
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decode %s: %v", data, err)
		}
		if ev["type"] == "presence" || ev["type"] == "peerSaved" {
			continue
		}
		return ev
	}
}
