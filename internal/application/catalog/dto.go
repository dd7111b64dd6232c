package catalog

import (
	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
)

// DefaultPageSize is the number of products per catalog page
const DefaultPageSize = 9

// Query filters and pages the product list
type Query struct {
	Category string `form:"category" binding:"max=100"`
	Search   string `form:"search" binding:"max=200"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
}

// Category is a catalog category with a display title
type Category struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// ProductPage is one page of the filtered product list
type ProductPage struct {
	Products   []cart.Product `json:"products"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
	Total      int            `json:"total"`
}

// Overview is the catalog landing data: the first page and all categories
type Overview struct {
	Page       ProductPage `json:"page"`
	Categories []Category  `json:"categories"`
}
