package catalog

import (
	"slices"

	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/pkg/errors"
)

// Categories is the fixed list of product types a seller can choose from.
var Categories = []string{
	"Electronics",
	"Fashion",
	"Home and Kitchen",
	"Health and Personal Care",
	"Books and Stationery",
	"Sports and Outdoors",
	"Toys and Games",
	"Beauty and Cosmetics",
	"Automotive",
	"Jewelry and Accessories",
	"Groceries and Food",
	"Baby Products",
	"Pet Supplies",
	"Tools and Hardware",
	"Office Supplies",
	"Musical Instruments",
	"Furniture",
	"Art and Craft",
	"Industrial and Scientific",
	"Video Games and Consoles",
	"Music",
}

// ValidCategory reports whether category is one of Categories.
func ValidCategory(category string) bool {
	return slices.Contains(Categories, category)
}

// ValidateProduct checks a product before it is created or updated.
func ValidateProduct(name, category string, price float64, stock int) error {
	switch {
	case name == "":
		return errors.Wrap(apperrors.ErrInvalidRequest, "product name is required")
	case !ValidCategory(category):
		return errors.Wrapf(apperrors.ErrInvalidRequest, "unknown product category %q", category)
	case price < 0:
		return errors.Wrap(apperrors.ErrInvalidRequest, "price cannot be negative")
	case stock < 0:
		return errors.Wrap(apperrors.ErrInvalidRequest, "stock cannot be negative")
	}
	return nil
}
