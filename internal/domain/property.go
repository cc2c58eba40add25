package domain

import "time"

type Property struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Size        float64   `json:"size"`
	Sold        bool      `json:"sold"`
	CategoryID  string    `json:"category_id"`
	AddressID   string    `json:"address_id"`
	Category    *Category `json:"category,omitempty"`
	Address     *Address  `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type Address struct {
	ID        string    `json:"id"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       int       `json:"zip"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// PropertyFilter acota el listado paginado de propiedades.
type PropertyFilter struct {
	Offset     int
	Limit      int
	Categories []string
	Sold       *bool
}

type PropertyPage struct {
	Items  []Property `json:"items"`
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
}
