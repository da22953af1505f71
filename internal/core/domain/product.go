package domain

// Product is a single merchandise item in the catalog. Prices are stored in
// integer minor currency units (cents). Products are owned by the product
// store and mutated outside this subsystem; the bundle engine only reads them.
type Product struct {
	ID        string
	Name      string
	BasePrice int64
	IsActive  bool
}

// Category groups products for storefront navigation. Categories are pulled
// from the authoring system during sync alongside products and bundles.
type Category struct {
	ID           string
	Name         string
	DisplayOrder int
}
