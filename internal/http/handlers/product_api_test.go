package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"growlokal/internal/http/handlers"
	"growlokal/internal/repos"
	"growlokal/internal/services"
)

func newProductApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	catalog := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db))
	authSvc := services.NewAuthService(repos.NewUserRepo(db), repos.NewCartRepo(db), quietMailer{}, "http://localhost:8080")
	h := &handlers.ProductHandler{Catalog: catalog}

	app := fiber.New()
	app.Get("/api/products/:id", h.Get)
	app.Put("/api/products/:id", handlers.RequireAdmin(authSvc), h.Update)
	app.Delete("/api/products/:id", handlers.RequireAdmin(authSvc), h.Delete)
	return app, authSvc
}

func productReq(t *testing.T, app *fiber.App, method, path, body, sid string) (*http.Response, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("non-JSON response %q: %v", raw, err)
	}
	return resp, out
}

func adminSID(t *testing.T, auth *services.AuthService) string {
	t.Helper()
	sid := "sid-admin-test"
	if _, err := auth.Login(sid, "admin@growlokal.test", "Passw0rd!"); err != nil {
		t.Fatal(err)
	}
	return sid
}

func TestGetProduct(t *testing.T) {
	app, _ := newProductApp(t)
	resp, out := productReq(t, app, "GET", "/api/products/basket-abaca-001", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%v)", resp.StatusCode, out)
	}
	data := out["data"].(map[string]any)
	if data["name"] != "Abaca Woven Basket" || data["price"].(float64) != 259.00 {
		t.Fatalf("bad product payload: %v", data)
	}
}

func TestUpdateProductRequiresAdmin(t *testing.T) {
	app, auth := newProductApp(t)

	// anonymous -> 401
	resp, _ := productReq(t, app, "PUT", "/api/products/basket-abaca-001", `{"price":299.00}`, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", resp.StatusCode)
	}

	// plain user -> 403
	userSID := "sid-user-test"
	if _, err := auth.Login(userSID, "maria@growlokal.test", "Passw0rd!"); err != nil {
		t.Fatal(err)
	}
	resp, _ = productReq(t, app, "PUT", "/api/products/basket-abaca-001", `{"price":299.00}`, userSID)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user status = %d, want 403", resp.StatusCode)
	}

	// admin succeeds and the change sticks
	sid := adminSID(t, auth)
	resp, out := productReq(t, app, "PUT", "/api/products/basket-abaca-001", `{"price":299.00,"stock":20}`, sid)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin status = %d (%v)", resp.StatusCode, out)
	}
	_, out = productReq(t, app, "GET", "/api/products/basket-abaca-001", "", "")
	data := out["data"].(map[string]any)
	if data["price"].(float64) != 299.00 || data["stock"].(float64) != 20 {
		t.Fatalf("update did not stick: %v", data)
	}
}

func TestDeleteProductIsSoft(t *testing.T) {
	app, auth := newProductApp(t)
	sid := adminSID(t, auth)

	resp, _ := productReq(t, app, "DELETE", "/api/products/basket-abaca-001", "", sid)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	// the product now reads as gone on the public API
	resp, _ = productReq(t, app, "GET", "/api/products/basket-abaca-001", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deactivated product visible: %d", resp.StatusCode)
	}
}

func TestUpdateProductRejectsNegativePrice(t *testing.T) {
	app, auth := newProductApp(t)
	sid := adminSID(t, auth)
	resp, _ := productReq(t, app, "PUT", "/api/products/basket-abaca-001", `{"price":-1}`, sid)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
