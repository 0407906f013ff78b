package models

import (
	"database/sql"
)

// Category is an entry in the clinic/procedure taxonomy. Posts reference
// categories by id; no behavior beyond existence lookup is assumed here.
type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"type:varchar(64);not null;uniqueIndex:community_categories_ux1;column:name"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "community_categories"
}

// Procedure is a treatment within a category.
type Procedure struct {
	ID         int64         `gorm:"primaryKey;autoIncrement;column:id"`
	Name       string        `gorm:"type:varchar(128);not null;column:name"`
	CategoryID sql.NullInt64 `gorm:"index;column:category_id"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName specifies the table name for Procedure
func (Procedure) TableName() string {
	return "community_procedures"
}
