package repositories

import (
	"context"
	"errors"

	domainErrors "qrisgate/internal/errors"
	"qrisgate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository is the order store. Every status transition goes
// through TransitionStatus so the guard and the write are atomic; the
// processor may deliver duplicate or racing notifications and only one
// of them may win.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	AddNote(ctx context.Context, orderID uint, note string) error
	TransitionStatus(ctx context.Context, orderID uint, from, to string, mutate func(*models.Order), notes ...string) (*models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a Postgres-backed order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	if db == nil {
		panic("db is required")
	}
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Notes").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) AddNote(ctx context.Context, orderID uint, note string) error {
	return r.db.WithContext(ctx).Create(&models.OrderNote{
		OrderID: orderID,
		Note:    note,
	}).Error
}

// TransitionStatus applies a guarded status change as one transaction:
// the order row is locked, the guard "status == from" is checked, the
// mutation and audit notes are written, all before the lock releases.
// A failed guard returns ErrStateConflict and leaves the row untouched.
func (r *orderRepository) TransitionStatus(ctx context.Context, orderID uint, from, to string, mutate func(*models.Order), notes ...string) (*models.Order, error) {
	var result *models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.ErrOrderNotFound
			}
			return err
		}

		if order.Status != from {
			return domainErrors.ErrStateConflict
		}

		order.Status = to
		if mutate != nil {
			mutate(&order)
		}

		if err := tx.Omit(clause.Associations).Save(&order).Error; err != nil {
			return err
		}

		for _, note := range notes {
			if err := tx.Create(&models.OrderNote{OrderID: order.ID, Note: note}).Error; err != nil {
				return err
			}
		}

		result = &order
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}
