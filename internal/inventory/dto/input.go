package dto

type MovementFilters struct {
	ReferenceID  string
	ProductID    string
	MovementType string
	Page         int
	PageSize     int
}
