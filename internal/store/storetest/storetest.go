// Package storetest provides in-memory repositories with the same error
// semantics as the postgres store, for use in tests.
package storetest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/csemotors/dealer/internal/store"
	"github.com/csemotors/dealer/types"
)

// Accounts is an in-memory account repository.
type Accounts struct {
	mu       sync.Mutex
	nextID   int
	accounts map[int]types.Account

	// Err, when set, is returned by every write.
	Err error
}

func NewAccounts() *Accounts {
	return &Accounts{nextID: 1, accounts: make(map[int]types.Account)}
}

// FailWrites makes every subsequent write return err. A nil err restores
// normal behaviour.
func (a *Accounts) FailWrites(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Err = err
}

// Len returns the number of stored accounts.
func (a *Accounts) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.accounts)
}

// Put stores account as is, assigning an id when it has none.
func (a *Accounts) Put(account types.Account) types.Account {
	a.mu.Lock()
	defer a.mu.Unlock()
	if account.ID == 0 {
		account.ID = a.nextID
	}
	if account.ID >= a.nextID {
		a.nextID = account.ID + 1
	}
	a.accounts[account.ID] = account
	return account
}

func (a *Accounts) GetByID(_ context.Context, id int) (types.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	account, ok := a.accounts[id]
	if !ok {
		return types.Account{}, store.ErrNotFound
	}
	return account, nil
}

func (a *Accounts) GetByEmail(_ context.Context, email string) (types.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if account, ok := a.byEmail(email); ok {
		return account, nil
	}
	return types.Account{}, store.ErrNotFound
}

func (a *Accounts) EmailExists(_ context.Context, email string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.byEmail(email)
	return ok, nil
}

func (a *Accounts) Create(_ context.Context, account types.Account) (types.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return types.Account{}, a.Err
	}
	if _, ok := a.byEmail(account.Email); ok {
		return types.Account{}, store.ErrDuplicate
	}
	account.ID = a.nextID
	a.nextID++
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	a.accounts[account.ID] = account
	return account, nil
}

func (a *Accounts) UpdateProfile(_ context.Context, id int, firstName, lastName, email string) (types.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return types.Account{}, a.Err
	}
	account, ok := a.accounts[id]
	if !ok {
		return types.Account{}, store.ErrNotFound
	}
	if other, ok := a.byEmail(email); ok && other.ID != id {
		return types.Account{}, store.ErrDuplicate
	}
	account.FirstName = firstName
	account.LastName = lastName
	account.Email = email
	account.UpdatedAt = time.Now()
	a.accounts[id] = account
	return account, nil
}

func (a *Accounts) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	account, ok := a.accounts[id]
	if !ok {
		return store.ErrNotFound
	}
	account.PasswordHash = passwordHash
	a.accounts[id] = account
	return nil
}

func (a *Accounts) UpsertDefault(ctx context.Context, account types.Account) (types.Account, error) {
	a.mu.Lock()
	existing, ok := a.byEmail(account.Email)
	a.mu.Unlock()
	if !ok {
		return a.Create(ctx, account)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	existing.FirstName = account.FirstName
	existing.LastName = account.LastName
	existing.Role = account.Role
	a.accounts[existing.ID] = existing
	return existing, nil
}

func (a *Accounts) byEmail(email string) (types.Account, bool) {
	for _, account := range a.accounts {
		if account.Email == email {
			return account, true
		}
	}
	return types.Account{}, false
}

// Inventory is an in-memory classification and vehicle repository.
type Inventory struct {
	mu              sync.Mutex
	classifications []types.Classification
	vehicles        []types.Vehicle

	// Err, when set, is returned by every write.
	Err error
}

func NewInventory() *Inventory {
	return &Inventory{}
}

// FailWrites makes every subsequent write return err.
func (i *Inventory) FailWrites(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Err = err
}

// Vehicles returns a copy of the stored vehicles.
func (i *Inventory) Vehicles() []types.Vehicle {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]types.Vehicle(nil), i.vehicles...)
}

func (i *Inventory) ListClassifications(context.Context) ([]types.Classification, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := append([]types.Classification{}, i.classifications...)
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (i *Inventory) CreateClassification(_ context.Context, name string) (types.Classification, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return types.Classification{}, i.Err
	}
	for _, c := range i.classifications {
		if c.Name == name {
			return types.Classification{}, store.ErrDuplicate
		}
	}
	c := types.Classification{ID: len(i.classifications) + 1, Name: name}
	i.classifications = append(i.classifications, c)
	return c, nil
}

func (i *Inventory) ListByClassification(_ context.Context, classificationID int) ([]types.Vehicle, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := []types.Vehicle{}
	for _, v := range i.vehicles {
		if v.ClassificationID == classificationID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (i *Inventory) GetVehicle(_ context.Context, id int) (types.Vehicle, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, v := range i.vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return types.Vehicle{}, store.ErrNotFound
}

func (i *Inventory) CreateVehicle(_ context.Context, vehicle types.Vehicle) (types.Vehicle, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return types.Vehicle{}, i.Err
	}
	name, ok := i.classificationName(vehicle.ClassificationID)
	if !ok {
		return types.Vehicle{}, errors.New("classification does not exist")
	}
	vehicle.ID = len(i.vehicles) + 1
	vehicle.ClassificationName = name
	vehicle.CreatedAt = time.Now()
	i.vehicles = append(i.vehicles, vehicle)
	return vehicle, nil
}

func (i *Inventory) Summary(context.Context) (types.InventorySummary, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	var s types.InventorySummary
	if len(i.vehicles) == 0 {
		return s, nil
	}
	miles := decimal.Zero
	s.HighestPrice = i.vehicles[0].Price
	s.LowestPrice = i.vehicles[0].Price
	for _, v := range i.vehicles {
		s.TotalVehicles++
		s.TotalValue = s.TotalValue.Add(v.Price)
		miles = miles.Add(decimal.NewFromInt(int64(v.Miles)))
		if v.Price.GreaterThan(s.HighestPrice) {
			s.HighestPrice = v.Price
		}
		if v.Price.LessThan(s.LowestPrice) {
			s.LowestPrice = v.Price
		}
	}
	count := decimal.NewFromInt(int64(s.TotalVehicles))
	s.AveragePrice = s.TotalValue.Div(count).Round(2)
	s.AverageMileage = miles.Div(count).Round(0)
	return s, nil
}

func (i *Inventory) SummaryByClassification(context.Context) ([]types.ClassificationSummary, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]types.ClassificationSummary, 0, len(i.classifications))
	for _, c := range i.classifications {
		s := types.ClassificationSummary{ClassificationID: c.ID, ClassificationName: c.Name}
		for _, v := range i.vehicles {
			if v.ClassificationID == c.ID {
				s.VehicleCount++
				s.TotalValue = s.TotalValue.Add(v.Price)
			}
		}
		if s.VehicleCount > 0 {
			s.AveragePrice = s.TotalValue.Div(decimal.NewFromInt(int64(s.VehicleCount))).Round(2)
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].VehicleCount != out[b].VehicleCount {
			return out[a].VehicleCount > out[b].VehicleCount
		}
		return out[a].ClassificationName < out[b].ClassificationName
	})
	return out, nil
}

func (i *Inventory) TopPriced(_ context.Context, limit int) ([]types.Vehicle, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := append([]types.Vehicle{}, i.vehicles...)
	sort.SliceStable(out, func(a, b int) bool {
		if !out[a].Price.Equal(out[b].Price) {
			return out[a].Price.GreaterThan(out[b].Price)
		}
		return out[a].Year > out[b].Year
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (i *Inventory) classificationName(id int) (string, bool) {
	for _, c := range i.classifications {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}
