package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/socialmentor/internal/config"
	"github.com/example/socialmentor/internal/models"
	"github.com/example/socialmentor/internal/routes"
	"github.com/example/socialmentor/internal/store"
	"github.com/example/socialmentor/internal/utils"
)

func newTestApp() (*fiber.App, *store.MemoryStore, *config.Config) {
	cfg := &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
	}
	st := store.NewMemory()
	app := fiber.New()
	routes.Register(app, st, cfg, nil)
	return app, st, cfg
}

func authToken(t *testing.T, cfg *config.Config, st *store.MemoryStore, role, name string) (*models.User, string) {
	t.Helper()
	user := &models.User{
		Name:  name,
		Email: name + "@example.com",
		Role:  role,
		City:  "Mumbai",
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, cfg.TokenExpires)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestRegisterLoginAndMe(t *testing.T) {
	app, _, _ := newTestApp()

	resp := doJSON(t, app, "POST", "/api/auth/register", "", map[string]any{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "secret1",
		"role":     "donor",
		"city":     "Pune",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("register did not return a token")
	}

	// Duplicate email is rejected.
	resp = doJSON(t, app, "POST", "/api/auth/register", "", map[string]any{
		"name":     "Asha Again",
		"email":    "asha@example.com",
		"password": "secret1",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	// Admin cannot be self-selected at signup.
	resp = doJSON(t, app, "POST", "/api/auth/register", "", map[string]any{
		"name":     "Mallory",
		"email":    "mallory@example.com",
		"password": "secret1",
		"role":     "admin",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("admin register status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, "POST", "/api/auth/login", "", map[string]any{
		"email":    "asha@example.com",
		"password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	loginToken, _ := body["token"].(string)
	if loginToken == "" {
		t.Fatal("login did not return a token")
	}

	resp = doJSON(t, app, "GET", "/api/auth/me", loginToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestDonationLifecycleOverHTTP(t *testing.T) {
	app, st, cfg := newTestApp()
	_, donorToken := authToken(t, cfg, st, models.RoleDonor, "asha")
	volunteer, volunteerToken := authToken(t, cfg, st, models.RoleVolunteer, "kiran")

	resp := doJSON(t, app, "POST", "/api/donations/", donorToken, map[string]any{
		"title":          "Rice",
		"description":    "10kg of rice",
		"category":       "food",
		"quantity":       "10kg",
		"pickup_address": "14 MG Road",
		"city":           "Mumbai",
		"pincode":        "400001",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	donationID := data["id"].(string)

	// The volunteer in the same city sees and accepts the task.
	resp = doJSON(t, app, "GET", "/api/volunteers/available-tasks", volunteerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("available status = %d, want 200", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	if items := body["data"].([]any); len(items) != 1 {
		t.Fatalf("available tasks = %d, want 1", len(items))
	}

	resp = doJSON(t, app, "POST", "/api/volunteers/accept/"+donationID, volunteerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accept status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	// Donor edits are locked once assigned; the conflict reports both sides.
	resp = doJSON(t, app, "PUT", "/api/donations/"+donationID, donorToken, map[string]any{
		"title": "Rice and dal",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("locked update status = %d, want 409", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	if body["current_status"] != models.StatusAssigned {
		t.Errorf("current_status = %v, want %s", body["current_status"], models.StatusAssigned)
	}
	if body["requested_status"] == nil {
		t.Error("requested_status missing from conflict body")
	}

	for _, status := range []string{models.StatusPickedUp, models.StatusDelivered} {
		resp = doJSON(t, app, "PUT", "/api/volunteers/update-status/"+donationID, volunteerToken, map[string]any{
			"status": status,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("update to %s status = %d, want 200", status, resp.StatusCode)
		}
		resp.Body.Close()
	}

	rewarded, err := st.GetUser(context.Background(), volunteer.ID)
	if err != nil {
		t.Fatalf("get volunteer: %v", err)
	}
	if rewarded.Points != models.DefaultPointsAwarded || rewarded.TasksCompleted != 1 {
		t.Errorf("points = %d, tasksCompleted = %d after delivery", rewarded.Points, rewarded.TasksCompleted)
	}

	// A retried delivery conflicts instead of re-awarding.
	resp = doJSON(t, app, "PUT", "/api/volunteers/update-status/"+donationID, volunteerToken, map[string]any{
		"status": models.StatusDelivered,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("retry status = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestErrorCodeMapping(t *testing.T) {
	app, st, cfg := newTestApp()
	donor, donorToken := authToken(t, cfg, st, models.RoleDonor, "asha")
	_, volunteerToken := authToken(t, cfg, st, models.RoleVolunteer, "kiran")
	_, otherToken := authToken(t, cfg, st, models.RoleVolunteer, "ravi")

	donation := &models.Donation{
		DonorID:       donor.ID,
		Title:         "Books",
		Description:   "a shelf of books",
		Category:      models.CategoryBooks,
		Quantity:      "1 shelf",
		PickupAddress: "14 MG Road",
		City:          "Mumbai",
		Pincode:       "400001",
		Status:        models.StatusCreated,
		PointsAwarded: models.DefaultPointsAwarded,
	}
	if err := st.CreateDonation(context.Background(), donation); err != nil {
		t.Fatalf("seed donation: %v", err)
	}

	// Unknown id: 404.
	resp := doJSON(t, app, "POST", "/api/volunteers/accept/8f14e45f-ceea-467f-9b46-3e7b4a0a1b2c", volunteerToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("accept unknown status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()

	// Malformed id: 400.
	resp = doJSON(t, app, "POST", "/api/volunteers/accept/not-a-uuid", volunteerToken, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("accept malformed status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	// Wrong role on a volunteer route: 403.
	resp = doJSON(t, app, "GET", "/api/volunteers/available-tasks", donorToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("donor on volunteer route status = %d, want 403", resp.StatusCode)
	}
	resp.Body.Close()

	// Missing auth: 401.
	resp = doJSON(t, app, "GET", "/api/donations/my-donations", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("missing auth status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()

	accept := fmt.Sprintf("/api/volunteers/accept/%s", donation.ID)
	resp = doJSON(t, app, "POST", accept, volunteerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accept status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	// Not the assigned volunteer: 403.
	resp = doJSON(t, app, "PUT", "/api/volunteers/update-status/"+donation.ID.String(), otherToken, map[string]any{
		"status": models.StatusPickedUp,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("other volunteer status = %d, want 403", resp.StatusCode)
	}
	resp.Body.Close()

	// Losing the race to another volunteer: 409.
	resp = doJSON(t, app, "POST", accept, otherToken, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second accept status = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	// Leaderboard is public.
	resp = doJSON(t, app, "GET", "/api/volunteers/leaderboard", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("leaderboard status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	app, st, cfg := newTestApp()
	_, donorToken := authToken(t, cfg, st, models.RoleDonor, "asha")
	_, adminToken := authToken(t, cfg, st, models.RoleAdmin, "root")

	resp := doJSON(t, app, "GET", "/api/admin/stats", donorToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("donor on admin route status = %d, want 403", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, "GET", "/api/admin/stats", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("admin stats status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatal("stats response missing data")
	}
	if _, ok := data["total_donations"]; !ok {
		t.Error("stats missing total_donations")
	}
}
