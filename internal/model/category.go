package model

type Category struct {
	BaseModel
	ParentID  *string `db:"parent_id" json:"parent_id"` // Nullable
	Name      string  `db:"name" json:"name"`
	SortOrder int     `db:"sort_order" json:"sort_order"`
	IsActive  bool    `db:"is_active" json:"is_active"`
	IsDeleted bool    `db:"is_deleted" json:"is_deleted"`
}

func (c *Category) Sellable() bool {
	return c.IsActive && !c.IsDeleted
}
