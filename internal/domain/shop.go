package domain

import "time"

// StatusPending is the only repair status this core assigns itself.
// The dashboard may move tickets through further states; the status
// column is an open set of non-empty strings.
const StatusPending = "Pending"

// ShopItem is one sellable inventory row. The barcode is assigned at
// creation and never changes afterwards.
type ShopItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"index" json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	Barcode   string    `gorm:"uniqueIndex;size:16" json:"barcode"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ShopItem) TableName() string {
	return "shop_item"
}

// ShopRepair is a repair intake ticket linked to a customer row.
type ShopRepair struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Item       string    `json:"item"`
	Issue      string    `json:"issue"`
	Status     string    `gorm:"size:32;index" json:"status"`
	CustomerID int64     `gorm:"index" json:"customer_id"`
	Barcode    string    `gorm:"uniqueIndex;size:16" json:"barcode"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ShopRepair) TableName() string {
	return "shop_repair"
}

// ShopCustomer holds the loyalty balance. Points start at 100 for an
// explicit registration and 0 when the row is auto-created by repair
// intake.
type ShopCustomer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"index" json:"name"`
	Email     string    `gorm:"size:128" json:"email"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ShopCustomer) TableName() string {
	return "shop_customer"
}

// ShopSale records one completed sale: the stock decrement plus the
// freshly generated sale barcode handed to the buyer.
type ShopSale struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID    int64     `gorm:"index" json:"item_id"`
	ItemName  string    `json:"item_name"`
	Price     float64   `json:"price"`
	Barcode   string    `gorm:"uniqueIndex;size:16" json:"barcode"`
	CreatedAt time.Time `json:"created_at"`
}

func (ShopSale) TableName() string {
	return "shop_sale"
}
