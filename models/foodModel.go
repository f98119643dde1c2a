package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Category struct {
	Model
	Name     string `json:"name" gorm:"size:191;not null;uniqueIndex"`
	ImageURL string `json:"image_url"`
}

type Food struct {
	Model
	Name        string                      `json:"name" gorm:"size:191;not null;index"`
	Description string                      `json:"description"`
	Price       decimal.Decimal             `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL    string                      `json:"image_url"`
	CategoryID  string                      `json:"category_id" gorm:"type:char(36);index"`
	CookTime    string                      `json:"cook_time"`
	Origins     datatypes.JSONSlice[string] `json:"origins"`
	IsFavorite  bool                        `json:"is_favorite"`
	Rating      float64                     `json:"rating"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
}
