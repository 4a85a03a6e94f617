package category

import "time"

const maxNameLength = 100

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	GroupID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_categories_group_name"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_categories_group_name"`
	Icon      *string   `gorm:"size:50"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type CreateInput struct {
	Name string
	Icon *string
}

type OptionalNullableString struct {
	Set   bool
	Value *string
}

type UpdateInput struct {
	Name *string
	Icon OptionalNullableString
}
