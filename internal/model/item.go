package model

// Category is the fixed set of tags an item can carry.
type Category string

const (
	CategoryGroceries   Category = "Groceries"
	CategoryHousehold   Category = "Household"
	CategoryElectronics Category = "Electronics"
	CategoryPharmacy    Category = "Pharmacy"
	CategoryFashion     Category = "Fashion"
	CategoryOther       Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryGroceries,
	CategoryHousehold,
	CategoryElectronics,
	CategoryPharmacy,
	CategoryFashion,
	CategoryOther,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Item is a single shopping-list entry. IDs are opaque strings generated by
// the caller; CreatedAt is epoch milliseconds, set once and never changed.
type Item struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Quantity       int      `json:"quantity"`
	Category       Category `json:"category"`
	Notes          string   `json:"notes,omitempty"`
	AttachmentURL  string   `json:"attachment_url,omitempty"`
	AttachmentName string   `json:"attachment_name,omitempty"`
	UserID         string   `json:"user_id,omitempty"`
	CreatedAt      int64    `json:"created_at"`
}

// ItemPatch is a partial update for an item. Nil fields are left untouched;
// a present field overwrites, even when empty. Quantity arrives as free text
// and is renormalized by the store. ID and CreatedAt are not patchable.
type ItemPatch struct {
	Name           *string   `json:"name,omitempty"`
	Quantity       *string   `json:"quantity,omitempty"`
	Category       *Category `json:"category,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	AttachmentURL  *string   `json:"attachment_url,omitempty"`
	AttachmentName *string   `json:"attachment_name,omitempty"`
}
