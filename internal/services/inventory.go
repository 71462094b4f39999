package services

import (
	"context"
	"fmt"

	"github.com/csemotors/dealer/internal/mq"
	"github.com/csemotors/dealer/internal/store"
	"github.com/csemotors/dealer/types"
)

const topPricedLimit = 5

// InventoryRepository defines persistence operations for classifications
// and vehicles.
type InventoryRepository interface {
	ListClassifications(ctx context.Context) ([]types.Classification, error)
	CreateClassification(ctx context.Context, name string) (types.Classification, error)
	ListByClassification(ctx context.Context, classificationID int) ([]types.Vehicle, error)
	GetVehicle(ctx context.Context, id int) (types.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle types.Vehicle) (types.Vehicle, error)
	Summary(ctx context.Context) (types.InventorySummary, error)
	SummaryByClassification(ctx context.Context) ([]types.ClassificationSummary, error)
	TopPriced(ctx context.Context, limit int) ([]types.Vehicle, error)
}

// InventoryService encapsulates inventory use-cases.
type InventoryService struct {
	repo   InventoryRepository
	events EventPublisher
}

func NewInventoryService(repo InventoryRepository, events EventPublisher) *InventoryService {
	return &InventoryService{repo: repo, events: events}
}

func (s *InventoryService) Classifications(ctx context.Context) ([]types.Classification, error) {
	return s.repo.ListClassifications(ctx)
}

func (s *InventoryService) AddClassification(ctx context.Context, name string) (types.Classification, error) {
	classification, err := s.repo.CreateClassification(ctx, name)
	if err != nil {
		return types.Classification{}, fmt.Errorf("create classification: %w", err)
	}
	if s.events != nil {
		s.events.Publish(ctx, mq.ClassificationCreated, classification)
	}
	return classification, nil
}

// VehiclesByClassification lists the vehicles of a classification. Unknown
// or invalid ids yield an empty list.
func (s *InventoryService) VehiclesByClassification(ctx context.Context, classificationID int) ([]types.Vehicle, error) {
	if classificationID < 1 {
		return []types.Vehicle{}, nil
	}
	return s.repo.ListByClassification(ctx, classificationID)
}

// Vehicle returns store.ErrNotFound for unknown or invalid ids.
func (s *InventoryService) Vehicle(ctx context.Context, id int) (types.Vehicle, error) {
	if id < 1 {
		return types.Vehicle{}, store.ErrNotFound
	}
	return s.repo.GetVehicle(ctx, id)
}

func (s *InventoryService) AddVehicle(ctx context.Context, vehicle types.Vehicle) (types.Vehicle, error) {
	created, err := s.repo.CreateVehicle(ctx, vehicle)
	if err != nil {
		return types.Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}
	if s.events != nil {
		s.events.Publish(ctx, mq.VehicleCreated, map[string]any{
			"inv_id":            created.ID,
			"inv_make":          created.Make,
			"inv_model":         created.Model,
			"inv_year":          created.Year,
			"inv_price":         created.Price,
			"classification_id": created.ClassificationID,
		})
	}
	return created, nil
}

// Analytics gathers the figures shown on the management page.
func (s *InventoryService) Analytics(ctx context.Context) (types.InventoryAnalytics, error) {
	var (
		analytics types.InventoryAnalytics
		err       error
	)
	if analytics.Summary, err = s.repo.Summary(ctx); err != nil {
		return analytics, fmt.Errorf("inventory summary: %w", err)
	}
	if analytics.ByClassification, err = s.repo.SummaryByClassification(ctx); err != nil {
		return analytics, fmt.Errorf("classification summary: %w", err)
	}
	if analytics.TopPriced, err = s.repo.TopPriced(ctx, topPricedLimit); err != nil {
		return analytics, fmt.Errorf("top priced vehicles: %w", err)
	}
	return analytics, nil
}
