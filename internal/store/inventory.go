package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/csemotors/dealer/types"
	"github.com/jmoiron/sqlx"
)

const vehicleColumns = `i.inv_id, i.inv_make, i.inv_model, i.inv_year, i.inv_description,
		i.inv_image, i.inv_thumbnail, i.inv_price, i.inv_miles, i.inv_color,
		i.classification_id, c.classification_name, i.created_at`

const defaultTopPricedLimit = 5

// InventoryRepository handles persistence for classifications and vehicles.
type InventoryRepository struct {
	db *sqlx.DB
}

func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) ListClassifications(ctx context.Context) ([]types.Classification, error) {
	const query = `
		SELECT classification_id, classification_name
		FROM classification
		ORDER BY classification_name`
	classifications := []types.Classification{}
	if err := r.db.SelectContext(ctx, &classifications, query); err != nil {
		return nil, err
	}
	return classifications, nil
}

func (r *InventoryRepository) CreateClassification(ctx context.Context, name string) (types.Classification, error) {
	const query = `
		INSERT INTO classification (classification_name)
		VALUES ($1)
		RETURNING classification_id, classification_name`
	var classification types.Classification
	if err := r.db.GetContext(ctx, &classification, query, name); err != nil {
		return types.Classification{}, mapWriteError(err)
	}
	return classification, nil
}

func (r *InventoryRepository) ListByClassification(ctx context.Context, classificationID int) ([]types.Vehicle, error) {
	const query = `
		SELECT ` + vehicleColumns + `
		FROM inventory AS i
		JOIN classification AS c ON i.classification_id = c.classification_id
		WHERE i.classification_id = $1
		ORDER BY i.inv_make, i.inv_model, i.inv_id`
	vehicles := []types.Vehicle{}
	if err := r.db.SelectContext(ctx, &vehicles, query, classificationID); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *InventoryRepository) GetVehicle(ctx context.Context, id int) (types.Vehicle, error) {
	const query = `
		SELECT ` + vehicleColumns + `
		FROM inventory AS i
		JOIN classification AS c ON i.classification_id = c.classification_id
		WHERE i.inv_id = $1
		LIMIT 1`
	var vehicle types.Vehicle
	if err := r.db.GetContext(ctx, &vehicle, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Vehicle{}, ErrNotFound
		}
		return types.Vehicle{}, err
	}
	return vehicle, nil
}

func (r *InventoryRepository) CreateVehicle(ctx context.Context, vehicle types.Vehicle) (types.Vehicle, error) {
	vehicle.CreatedAt = time.Now()

	const query = `
		INSERT INTO inventory (
			inv_make, inv_model, inv_year, inv_description, inv_image, inv_thumbnail,
			inv_price, inv_miles, inv_color, classification_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING inv_id`
	if err := r.db.QueryRowxContext(
		ctx,
		query,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.Description,
		vehicle.Image,
		vehicle.Thumbnail,
		vehicle.Price,
		vehicle.Miles,
		vehicle.Color,
		vehicle.ClassificationID,
		vehicle.CreatedAt,
	).Scan(&vehicle.ID); err != nil {
		return types.Vehicle{}, mapWriteError(err)
	}
	return vehicle, nil
}

func (r *InventoryRepository) Summary(ctx context.Context) (types.InventorySummary, error) {
	const query = `
		SELECT
			COUNT(inv_id)::int AS total_vehicles,
			COALESCE(SUM(inv_price), 0)::numeric AS total_value,
			COALESCE(AVG(inv_price), 0)::numeric AS average_price,
			COALESCE(AVG(inv_miles), 0)::numeric AS average_mileage,
			COALESCE(MAX(inv_price), 0)::numeric AS highest_price,
			COALESCE(MIN(inv_price), 0)::numeric AS lowest_price
		FROM inventory`
	var summary types.InventorySummary
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return types.InventorySummary{}, err
	}
	return summary, nil
}

func (r *InventoryRepository) SummaryByClassification(ctx context.Context) ([]types.ClassificationSummary, error) {
	const query = `
		SELECT
			c.classification_id,
			c.classification_name,
			COUNT(i.inv_id)::int AS vehicle_count,
			COALESCE(SUM(i.inv_price), 0)::numeric AS total_value,
			COALESCE(AVG(i.inv_price), 0)::numeric AS average_price
		FROM classification c
		LEFT JOIN inventory i ON i.classification_id = c.classification_id
		GROUP BY c.classification_id, c.classification_name
		ORDER BY vehicle_count DESC, c.classification_name`
	summaries := []types.ClassificationSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *InventoryRepository) TopPriced(ctx context.Context, limit int) ([]types.Vehicle, error) {
	if limit < 1 {
		limit = defaultTopPricedLimit
	}

	const query = `
		SELECT ` + vehicleColumns + `
		FROM inventory AS i
		JOIN classification AS c ON i.classification_id = c.classification_id
		ORDER BY i.inv_price DESC, i.inv_year DESC
		LIMIT $1`
	vehicles := []types.Vehicle{}
	if err := r.db.SelectContext(ctx, &vehicles, query, limit); err != nil {
		return nil, err
	}
	return vehicles, nil
}
