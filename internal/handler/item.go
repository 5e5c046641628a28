package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pantrylabs/trolley/internal/auth"
	"github.com/pantrylabs/trolley/internal/list"
	"github.com/pantrylabs/trolley/internal/model"
	"github.com/pantrylabs/trolley/internal/websocket"
)

// maxAttachmentBytes caps the encoded attachment data URI.
const maxAttachmentBytes = 2 * 1024 * 1024

const (
	msgNameRequired       = "Item name is required"
	msgAttachmentTooLarge = "File size too large. Please choose a file smaller than 2MB."
)

type ItemHandler struct {
	store  *list.Store
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewItemHandler(store *list.Store, hub *websocket.Hub, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{store: store, hub: hub, logger: logger}
}

func (h *ItemHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// flexString decodes a JSON string or number into its text form. Quantity
// arrives as either from the UI, and the store renormalizes the text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type itemRequest struct {
	Name           string     `json:"name"`
	Quantity       flexString `json:"quantity"`
	Category       string     `json:"category"`
	Notes          string     `json:"notes"`
	AttachmentURL  string     `json:"attachment_url"`
	AttachmentName string     `json:"attachment_name"`
}

type itemPatchRequest struct {
	Name           *string         `json:"name"`
	Quantity       *flexString     `json:"quantity"`
	Category       *model.Category `json:"category"`
	Notes          *string         `json:"notes"`
	AttachmentURL  *string         `json:"attachment_url"`
	AttachmentName *string         `json:"attachment_name"`
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, msgNameRequired)
		return
	}

	category := model.Category(req.Category)
	if req.Category == "" {
		category = model.CategoryOther
	} else if !category.Valid() {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	if len(req.AttachmentURL) > maxAttachmentBytes {
		writeError(w, http.StatusBadRequest, msgAttachmentTooLarge)
		return
	}

	item := model.Item{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Quantity:       list.ParseQuantity(string(req.Quantity)),
		Category:       category,
		Notes:          req.Notes,
		AttachmentURL:  req.AttachmentURL,
		AttachmentName: req.AttachmentName,
		UserID:         auth.UserID(r.Context()),
		CreatedAt:      time.Now().UnixMilli(),
	}
	h.store.Add(item)

	h.broadcast(websocket.NewMessage("item", "created", item.ID, nil))
	writeJSON(w, http.StatusCreated, item)
}

// ListItems returns the derived view of the collection: search and category
// filters applied, then the requested sort. The backing collection order is
// never changed by a query.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := list.Query{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Sort:     r.URL.Query().Get("sort"),
	}

	items := list.Apply(h.store.Items(), q)
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.store.Get(id); !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	var req itemPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			writeError(w, http.StatusBadRequest, msgNameRequired)
			return
		}
		req.Name = &trimmed
	}
	if req.Category != nil && !req.Category.Valid() {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}
	if req.AttachmentURL != nil && len(*req.AttachmentURL) > maxAttachmentBytes {
		writeError(w, http.StatusBadRequest, msgAttachmentTooLarge)
		return
	}

	patch := model.ItemPatch{
		Name:           req.Name,
		Category:       req.Category,
		Notes:          req.Notes,
		AttachmentURL:  req.AttachmentURL,
		AttachmentName: req.AttachmentName,
	}
	if req.Quantity != nil {
		qty := string(*req.Quantity)
		patch.Quantity = &qty
	}
	h.store.Edit(id, patch)

	item, _ := h.store.Get(id)
	h.broadcast(websocket.NewMessage("item", "updated", id, nil))
	writeJSON(w, http.StatusOK, item)
}

// DeleteItem is idempotent: removing an id that is already gone still
// returns 204.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	_, existed := h.store.Get(id)
	h.store.Remove(id)

	if existed {
		h.broadcast(websocket.NewMessage("item", "deleted", id, nil))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) ClearItems(w http.ResponseWriter, r *http.Request) {
	cleared := h.store.Len()
	h.store.Clear()

	h.broadcast(websocket.NewMessage("list", "cleared", "", map[string]any{"cleared": cleared}))
	writeJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}
