package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pantrylabs/trolley/internal/list"
	"github.com/pantrylabs/trolley/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupItemHandler(t *testing.T) (*ItemHandler, *list.Store) {
	t.Helper()
	store := list.NewStore(nil, testLogger())
	return NewItemHandler(store, nil, testLogger()), store
}

func postItem(t *testing.T, h *ItemHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateItem(rec, req)
	return rec
}

func TestCreateItemRequiresName(t *testing.T) {
	h, _ := setupItemHandler(t)

	rec := postItem(t, h, `{"name":"  ","quantity":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), msgNameRequired) {
		t.Errorf("body = %q, want %q", rec.Body.String(), msgNameRequired)
	}
}

func TestCreateItemQuantityAcceptsStringOrNumber(t *testing.T) {
	h, store := setupItemHandler(t)

	cases := []struct {
		body string
		want int
	}{
		{`{"name":"Milk","quantity":3}`, 3},
		{`{"name":"Eggs","quantity":"4"}`, 4},
		{`{"name":"Bread","quantity":"abc"}`, 1},
		{`{"name":"Jam","quantity":-2}`, 1},
		{`{"name":"Tea"}`, 1},
	}
	for _, tc := range cases {
		rec := postItem(t, h, tc.body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("%s: status = %d, want %d (%s)", tc.body, rec.Code, http.StatusCreated, rec.Body.String())
		}
		var item model.Item
		json.NewDecoder(rec.Body).Decode(&item)
		if item.Quantity != tc.want {
			t.Errorf("%s: quantity = %d, want %d", tc.body, item.Quantity, tc.want)
		}
	}
	if store.Len() != len(cases) {
		t.Errorf("store has %d items, want %d", store.Len(), len(cases))
	}
}

func TestCreateItemDefaultsCategoryToOther(t *testing.T) {
	h, _ := setupItemHandler(t)

	rec := postItem(t, h, `{"name":"Thing"}`)
	var item model.Item
	json.NewDecoder(rec.Body).Decode(&item)
	if item.Category != model.CategoryOther {
		t.Errorf("category = %q, want %q", item.Category, model.CategoryOther)
	}
	if item.ID == "" {
		t.Error("expected generated id")
	}
	if item.CreatedAt == 0 {
		t.Error("expected created_at to be set")
	}
}

func TestCreateItemRejectsUnknownCategory(t *testing.T) {
	h, _ := setupItemHandler(t)

	rec := postItem(t, h, `{"name":"Thing","category":"Automotive"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateItemRejectsOversizedAttachment(t *testing.T) {
	h, _ := setupItemHandler(t)

	attachment := strings.Repeat("A", maxAttachmentBytes+1)
	rec := postItem(t, h, `{"name":"Photo","attachment_url":"`+attachment+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "smaller than 2MB") {
		t.Errorf("body = %q, want size message", rec.Body.String())
	}
}

func TestListItemsAppliesQuery(t *testing.T) {
	h, store := setupItemHandler(t)
	store.Add(model.Item{ID: "1", Name: "Banana", Category: model.CategoryGroceries, Quantity: 1})
	store.Add(model.Item{ID: "2", Name: "Apple", Category: model.CategoryGroceries, Quantity: 1})
	store.Add(model.Item{ID: "3", Name: "Soap", Category: model.CategoryHousehold, Quantity: 1})

	req := httptest.NewRequest("GET", "/api/items?category=Groceries&sort=name-asc", nil)
	rec := httptest.NewRecorder()
	h.ListItems(rec, req)

	var items []model.Item
	json.NewDecoder(rec.Body).Decode(&items)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Name != "Apple" || items[1].Name != "Banana" {
		t.Errorf("order = %s, %s; want Apple, Banana", items[0].Name, items[1].Name)
	}
}

func TestListItemsEmptyStoreReturnsEmptyArray(t *testing.T) {
	h, _ := setupItemHandler(t)

	req := httptest.NewRequest("GET", "/api/items", nil)
	rec := httptest.NewRecorder()
	h.ListItems(rec, req)

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	h, _ := setupItemHandler(t)

	req := httptest.NewRequest("PATCH", "/api/items/missing", strings.NewReader(`{"name":"X"}`))
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.UpdateItem(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestUpdateItemMergesPatch(t *testing.T) {
	h, store := setupItemHandler(t)
	store.Add(model.Item{ID: "i1", Name: "Milk", Quantity: 1, Category: model.CategoryGroceries, Notes: "2%"})

	body := `{"quantity":"5","notes":"whole"}`
	req := httptest.NewRequest("PATCH", "/api/items/i1", strings.NewReader(body))
	req.SetPathValue("id", "i1")
	rec := httptest.NewRecorder()
	h.UpdateItem(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var item model.Item
	json.NewDecoder(rec.Body).Decode(&item)
	if item.Name != "Milk" {
		t.Errorf("name = %q, untouched field must survive", item.Name)
	}
	if item.Quantity != 5 {
		t.Errorf("quantity = %d, want 5", item.Quantity)
	}
	if item.Notes != "whole" {
		t.Errorf("notes = %q, want whole", item.Notes)
	}
}

func TestDeleteItemIsIdempotent(t *testing.T) {
	h, store := setupItemHandler(t)
	store.Add(model.Item{ID: "i1", Name: "Milk", Quantity: 1})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("DELETE", "/api/items/i1", nil)
		req.SetPathValue("id", "i1")
		rec := httptest.NewRecorder()
		h.DeleteItem(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("delete %d: status = %d, want %d", i+1, rec.Code, http.StatusNoContent)
		}
	}
	if store.Len() != 0 {
		t.Errorf("store has %d items, want 0", store.Len())
	}
}

func TestClearItems(t *testing.T) {
	h, store := setupItemHandler(t)
	store.Add(model.Item{ID: "1", Name: "A", Quantity: 1})
	store.Add(model.Item{ID: "2", Name: "B", Quantity: 1})

	req := httptest.NewRequest("POST", "/api/items/clear", nil)
	rec := httptest.NewRecorder()
	h.ClearItems(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp map[string]int
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["cleared"] != 2 {
		t.Errorf("cleared = %d, want 2", resp["cleared"])
	}
	if store.Len() != 0 {
		t.Errorf("store has %d items, want 0", store.Len())
	}
}
