package dto

type ProductFilters struct {
	SellerID string
	IsActive *bool
}
