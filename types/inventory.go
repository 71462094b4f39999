package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Classification groups vehicles into categories such as "SUV" or "Truck".
type Classification struct {
	// ID is the unique identifier of the classification.
	ID int `json:"id" db:"classification_id"`

	// Name is the display name. It contains only letters and digits.
	Name string `json:"name" db:"classification_name"`
}

// Vehicle is a single inventory item offered by the dealership.
type Vehicle struct {
	ID          int    `json:"id" db:"inv_id"`
	Make        string `json:"make" db:"inv_make"`
	Model       string `json:"model" db:"inv_model"`
	Year        int    `json:"year" db:"inv_year"`
	Description string `json:"description" db:"inv_description"`

	// Image and Thumbnail are URL paths, either static assets or
	// uploaded objects served under /media/.
	Image     string `json:"image" db:"inv_image"`
	Thumbnail string `json:"thumbnail" db:"inv_thumbnail"`

	Price decimal.Decimal `json:"price" db:"inv_price"`
	Miles int             `json:"miles" db:"inv_miles"`
	Color string          `json:"color" db:"inv_color"`

	ClassificationID int `json:"classification_id" db:"classification_id"`

	// ClassificationName is populated on reads that join the classification.
	ClassificationName string `json:"classification_name,omitempty" db:"classification_name"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// InventorySummary aggregates price and mileage figures across all vehicles.
type InventorySummary struct {
	TotalVehicles  int             `db:"total_vehicles"`
	TotalValue     decimal.Decimal `db:"total_value"`
	AveragePrice   decimal.Decimal `db:"average_price"`
	AverageMileage decimal.Decimal `db:"average_mileage"`
	HighestPrice   decimal.Decimal `db:"highest_price"`
	LowestPrice    decimal.Decimal `db:"lowest_price"`
}

// ClassificationSummary aggregates vehicles within one classification.
type ClassificationSummary struct {
	ClassificationID   int             `db:"classification_id"`
	ClassificationName string          `db:"classification_name"`
	VehicleCount       int             `db:"vehicle_count"`
	TotalValue         decimal.Decimal `db:"total_value"`
	AveragePrice       decimal.Decimal `db:"average_price"`
}

// AverageMiles rounds the average mileage to whole miles.
func (s InventorySummary) AverageMiles() int {
	return int(s.AverageMileage.Round(0).IntPart())
}

// InventoryAnalytics is the data shown on the inventory management page.
type InventoryAnalytics struct {
	Summary          InventorySummary
	ByClassification []ClassificationSummary
	TopPriced        []Vehicle
}
