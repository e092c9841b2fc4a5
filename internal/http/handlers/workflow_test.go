package handlers_test

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func (ta *testApp) stock(t *testing.T, productID string) int {
	t.Helper()
	var n int
	if err := ta.db.Get(&n, `SELECT stock FROM products WHERE id = ?`, productID); err != nil {
		t.Fatalf("stock %s: %v", productID, err)
	}
	return n
}

func TestBuyConfirmIsReadOnly(t *testing.T) {
	ta := newTestApp(t)
	sid := ta.session(t, "u-alice")

	resp := ta.get(t, "/buy/toy-rope", sid)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected confirmation page, got %d", resp.StatusCode)
	}
	if got := ta.stock(t, "toy-rope"); got != 1 {
		t.Fatalf("GET must not purchase, stock now %d", got)
	}
}

func TestBuyLastUnitThenOutOfStock(t *testing.T) {
	ta := newTestApp(t)
	tok := ta.csrf(t)
	sid := ta.session(t, "u-alice")

	first := ta.postForm(t, "/buy/toy-rope", url.Values{}, tok, sid)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for first purchase, got %d", first.StatusCode)
	}
	if !strings.Contains(body(t, first), "7.50") {
		t.Fatal("thank you page should show the order total")
	}

	second := ta.postForm(t, "/buy/toy-rope", url.Values{}, tok, ta.session(t, "u-bob"))
	if second.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 once stock is gone, got %d", second.StatusCode)
	}
	if got := ta.stock(t, "toy-rope"); got != 0 {
		t.Fatalf("stock must end at 0, got %d", got)
	}

	var orders int
	_ = ta.db.Get(&orders, `SELECT COUNT(*) FROM orders WHERE product_id = 'toy-rope'`)
	if orders != 1 {
		t.Fatalf("expected exactly one order, got %d", orders)
	}
}

func TestBuyWithoutCSRFRejected(t *testing.T) {
	ta := newTestApp(t)
	resp := ta.postForm(t, "/buy/food-kibble", url.Values{}, "", ta.session(t, "u-alice"))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", resp.StatusCode)
	}
	if got := ta.stock(t, "food-kibble"); got != 10 {
		t.Fatalf("stock changed without a valid token: %d", got)
	}
}

func TestBuyUnknownProduct(t *testing.T) {
	ta := newTestApp(t)
	resp := ta.postForm(t, "/buy/no-such-thing", url.Values{}, ta.csrf(t), ta.session(t, "u-alice"))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestProductsCategoryFilter(t *testing.T) {
	ta := newTestApp(t)
	resp := ta.get(t, "/products?category=toys", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	page := body(t, resp)
	if !strings.Contains(page, "Rope Tug Toy") || strings.Contains(page, "Premium Kibble") {
		t.Fatal("category filter not applied")
	}
	if bad := ta.get(t, "/products?category=weapons", ""); bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", bad.StatusCode)
	}
}

func TestAdoptionRequestOnlyForAvailableAnimals(t *testing.T) {
	ta := newTestApp(t)
	tok := ta.csrf(t)
	sid := ta.session(t, "u-alice")
	form := func() url.Values { return url.Values{"message": {"Big garden, lots of walks."}} }

	if resp := ta.postForm(t, "/adopt/dog-rex", form(), tok, sid); resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for a pending animal, got %d", resp.StatusCode)
	}
	for i := 0; i < 2; i++ {
		if resp := ta.postForm(t, "/adopt/dog-buddy", form(), tok, sid); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, resp.StatusCode)
		}
	}
	var n int
	_ = ta.db.Get(&n, `SELECT COUNT(*) FROM adoption_requests WHERE animal_id = 'dog-buddy' AND status = 'pending'`)
	if n != 2 {
		t.Fatalf("expected 2 pending requests, got %d", n)
	}
	var status string
	_ = ta.db.Get(&status, `SELECT status FROM animals WHERE id = 'dog-buddy'`)
	if status != "available" {
		t.Fatalf("requesting must not change the animal, got %q", status)
	}

	if resp := ta.postForm(t, "/adopt/dog-buddy", url.Values{"message": {"   "}}, tok, sid); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty message, got %d", resp.StatusCode)
	}
}

func TestBookingConfirmedAndPaid(t *testing.T) {
	ta := newTestApp(t)
	form := url.Values{"pet_name": {"Buddy"}, "animal_type": {"dog"}, "booking_date": {"2030-06-01"}}
	resp := ta.postForm(t, "/book/plan-medium", form, ta.csrf(t), ta.session(t, "u-bob"))
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/account?booked=") {
		t.Fatalf("unexpected redirect %q", loc)
	}

	var row struct {
		Status string `db:"status"`
		Paid   bool   `db:"payment_completed"`
	}
	if err := ta.db.Get(&row, `SELECT status, payment_completed FROM bookings WHERE user_id = 'u-bob'`); err != nil {
		t.Fatalf("booking row: %v", err)
	}
	if row.Status != "confirmed" || !row.Paid {
		t.Fatalf("booking should be confirmed and paid, got %+v", row)
	}

	form.Set("booking_date", "next tuesday")
	if bad := ta.postForm(t, "/book/plan-medium", form, ta.csrf(t), ta.session(t, "u-bob")); bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", bad.StatusCode)
	}
}

func rescueFields() map[string]string {
	return map[string]string{
		"name":         "Alice Smith",
		"phone_number": "5550100",
		"date":         "2030-01-15",
		"time":         "14:30",
		"animal_type":  "cat",
		"description":  "Kitten stuck under a parked car, looks hungry.",
		"location":     "Corner of 5th and Main",
	}
}

func TestRescueSubmitStoresImageAndNotifies(t *testing.T) {
	ta := newTestApp(t)
	resp := ta.postMultipart(t, "/rescue", rescueFields(), "image", "kitten.png", pngBytes, ta.csrf(t), ta.session(t, "u-alice"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body(t, resp))
	}
	if n := ta.notify.count(); n != 1 {
		t.Fatalf("expected one confirmation dispatched, got %d", n)
	}
	if ta.notify.msgs[0].to != "alice@petcare.test" {
		t.Fatalf("confirmation sent to %q", ta.notify.msgs[0].to)
	}

	var image, status string
	if err := ta.db.QueryRow(`SELECT image, status FROM rescue_requests WHERE user_id = 'u-alice'`).Scan(&image, &status); err != nil {
		t.Fatalf("rescue row: %v", err)
	}
	if status != "pending" {
		t.Fatalf("new rescue must be pending, got %q", status)
	}
	if !strings.HasPrefix(image, "rescue_requests/") {
		t.Fatalf("unexpected image path %q", image)
	}
	if _, err := os.Stat(filepath.Join(ta.cfg.MediaDir, filepath.FromSlash(image))); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	served := ta.get(t, "/media/"+image, "")
	if served.StatusCode != http.StatusOK {
		t.Fatalf("expected uploaded image to be served, got %d", served.StatusCode)
	}
}

func TestRescueRejectsBadUploads(t *testing.T) {
	ta := newTestApp(t)
	tok := ta.csrf(t)
	sid := ta.session(t, "u-alice")

	cases := []struct {
		name, file string
		data       []byte
	}{
		{"bad extension", "kitten.exe", pngBytes},
		{"not an image", "kitten.png", []byte("#!/bin/sh\necho hi\n")},
		{"missing file", "", nil},
	}
	for _, tc := range cases {
		field := "image"
		if tc.file == "" {
			field = ""
		}
		resp := ta.postMultipart(t, "/rescue", rescueFields(), field, tc.file, tc.data, tok, sid)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, resp.StatusCode)
		}
	}

	fields := rescueFields()
	fields["animal_type"] = "dragon"
	if resp := ta.postMultipart(t, "/rescue", fields, "image", "kitten.png", pngBytes, tok, sid); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad animal type: expected 400, got %d", resp.StatusCode)
	}

	var n int
	_ = ta.db.Get(&n, `SELECT COUNT(*) FROM rescue_requests`)
	if n != 0 {
		t.Fatalf("rejected submissions must not create rows, got %d", n)
	}
	if ta.notify.count() != 0 {
		t.Fatal("rejected submissions must not notify")
	}
	if entries, _ := os.ReadDir(filepath.Join(ta.cfg.MediaDir, "rescue_requests")); len(entries) != 0 {
		t.Fatalf("rejected uploads left %d files behind", len(entries))
	}
}

func TestAccountListsOwnRecords(t *testing.T) {
	ta := newTestApp(t)
	tok := ta.csrf(t)
	alice := ta.session(t, "u-alice")
	ta.postForm(t, "/book/plan-low", url.Values{"pet_name": {"Whiskers"}, "animal_type": {"cat"}, "booking_date": {"2030-02-02"}}, tok, alice)
	ta.postForm(t, "/buy/food-kibble", url.Values{}, tok, alice)

	mine := body(t, ta.get(t, "/account", alice))
	if !strings.Contains(mine, "Whiskers") || !strings.Contains(mine, "Premium Kibble 5kg") {
		t.Fatal("account page should list the user's booking and order")
	}
	other := body(t, ta.get(t, "/account", ta.session(t, "u-bob")))
	if strings.Contains(other, "Whiskers") {
		t.Fatal("another user's booking leaked into the account page")
	}
}
