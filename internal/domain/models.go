package domain

import "encoding/json"

// Variant sizes in display order.
var Sizes = []string{"S", "M", "L", "XL", "XXL"}

// Storefront categories.
var Categories = []string{"men", "women", "wholesale"}

func ValidSize(s string) bool {
	for _, v := range Sizes {
		if v == s {
			return true
		}
	}
	return false
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string  `db:"id"`
	Slug        string  `db:"slug"`
	Name        string  `db:"name"`
	Category    string  `db:"category"` // men | women | wholesale
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	TagsJSON    string  `db:"tags_json"`
	ImagesJSON  string  `db:"images_json"`
	Active      bool    `db:"active"`
	CreatedAt   string  `db:"created_at"`
	UpdatedAt   string  `db:"updated_at"`
}

func (p Product) Tags() []string   { return fromJSONList(p.TagsJSON) }
func (p Product) Images() []string { return fromJSONList(p.ImagesJSON) }

// MainImage returns the first image path, or "" when the product has none.
func (p Product) MainImage() string {
	if imgs := p.Images(); len(imgs) > 0 {
		return imgs[0]
	}
	return ""
}

func fromJSONList(s string) []string {
	var out []string
	if s == "" {
		return out
	}
	_ = json.Unmarshal([]byte(s), &out)
	return out
}

// ToJSONList renders a string slice as a JSON array column value.
func ToJSONList(ss []string) string {
	b, _ := json.Marshal(ss)
	return string(b)
}

type ProductVariant struct {
	ProductID string  `db:"product_id"`
	Size      string  `db:"size"`
	Stock     int     `db:"stock"`
	Price     float64 `db:"price"`
}

// CartItem is one cart line. (ProductID, Size) is the uniqueness key; name,
// image and price are a snapshot taken when the item was added.
type CartItem struct {
	ProductID string  `db:"product_id"`
	Name      string  `db:"name"`
	Image     string  `db:"image"`
	Size      string  `db:"size"`
	Quantity  int     `db:"qty"`
	Price     float64 `db:"price"`
}

func (i CartItem) Subtotal() float64 { return i.Price * float64(i.Quantity) }

type Order struct {
	OrderID   string `db:"order_id"`
	Name      string `db:"customer_name"`
	Phone     string `db:"phone"`
	Status    string `db:"status"`
	CreatedAt string `db:"created_at"`
}
