package domain

import "github.com/shopspring/decimal"

type MenuType string

const (
	MenuFood  MenuType = "food"
	MenuDrink MenuType = "drink"
)

type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

type MenuItem struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Category    string          `json:"category,omitempty"`
	MenuType    MenuType        `json:"menuType,omitempty"`
	Ingredients []Ingredient    `json:"ingredients"`
	Available   bool            `json:"available"`
}

type Category struct {
	ID       string     `json:"_id"`
	Name     string     `json:"name"`
	MenuType MenuType   `json:"menuType"`
	Products []MenuItem `json:"products"`
}

type Table struct {
	TableID string `json:"tableId"`
	Label   string `json:"label"`
}
