package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kewgardenflowers/kgf-orders/internal/models"
	"github.com/kewgardenflowers/kgf-orders/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Status filter values accepted by List. Anything else lists every status.
const (
	FilterUnfulfilled = string(models.OrderStatusUnfulfilled)
	FilterFulfilled   = string(models.OrderStatusFulfilled)
	FilterAll         = "all"
)

// OrderInput is a submitted order form. Values are raw form strings.
type OrderInput struct {
	Contact      ContactInput
	DeliveryDate string
	ItemsText    string
	Notes        string
	Price        string
}

// OrderPatch is an edit form. Nil fields keep their stored value; a blank
// Price clears the stored price.
type OrderPatch struct {
	DeliveryDate *string
	ItemsText    *string
	Notes        *string
	Price        *string
}

// OrderFilter narrows the order list.
type OrderFilter struct {
	Status string
	Query  string
}

// DashboardStats are the counters shown on the dashboard.
type DashboardStats struct {
	Unfulfilled int64
	Today       int64
	Week        int64
	Month       int64
}

// DeliveryDay groups the orders due on one date.
type DeliveryDay struct {
	Date   time.Time
	Orders []models.Order
}

// OrderService implements the order lifecycle.
type OrderService struct {
	db  *gorm.DB
	log logrus.FieldLogger
	now func() time.Time

	// createMu serializes id generation and client matching within the process.
	createMu sync.Mutex
}

func NewOrderService(db *gorm.DB, log logrus.FieldLogger) *OrderService {
	return &OrderService{db: db, log: log, now: time.Now}
}

// WithClock replaces the time source, for tests and tools.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// NextPublicID returns the id the next created order would receive.
func (s *OrderService) NextPublicID(ctx context.Context) (string, error) {
	return nextPublicID(s.db.WithContext(ctx), s.now())
}

// Create validates the input, resolves the client, and stores a new
// unfulfilled order with the next public id.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*models.Order, error) {
	v := make(validation.Violations)
	price := validation.Decimal("price_hkd", in.Price, v)
	validation.Required("client_name", in.Contact.Name, v)
	validation.Required("delivery_date", in.DeliveryDate, v)
	delivery := validation.Date("delivery_date", in.DeliveryDate, models.DateLayout, v)
	if err := invalid(v); err != nil {
		return nil, err
	}

	contact := in.Contact
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Address = strings.TrimSpace(contact.Address)

	order := &models.Order{
		DeliveryDate: delivery,
		Status:       models.OrderStatusUnfulfilled,
		ItemsText:    in.ItemsText,
		Notes:        in.Notes,
		PriceHKD:     price,
	}
	if err := s.create(ctx, contact, order); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"public_id": order.PublicID,
		"client_id": order.ClientID,
	}).Info("order created")
	return order, nil
}

func (s *OrderService) create(ctx context.Context, contact ContactInput, order *models.Order) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	now := s.now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(now.UTC().Year())).Error; err != nil {
				return fmt.Errorf("lock public id sequence: %w", err)
			}
		}
		client, err := resolveClient(tx, contact)
		if err != nil {
			return err
		}
		publicID, err := nextPublicID(tx, now)
		if err != nil {
			return err
		}
		order.ClientID = client.ID
		order.PublicID = publicID
		if err := tx.Omit("Client").Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		order.Client = client
		return nil
	})
}

// List returns active orders by delivery date.
func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	db := s.db.WithContext(ctx).
		Joins("Client").
		Scopes(models.ActiveOrders)

	switch f.Status {
	case FilterUnfulfilled, FilterFulfilled:
		db = db.Where("orders.status = ?", f.Status)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := likePattern(q)
		db = db.Where(
			`LOWER("Client"."name") LIKE ? ESCAPE '\' OR LOWER("Client"."email") LIKE ? ESCAPE '\' OR LOWER("Client"."phone") LIKE ? ESCAPE '\' OR LOWER(orders.public_id) LIKE ? ESCAPE '\'`,
			like, like, like, like,
		)
	}

	var orders []models.Order
	if err := db.Order("orders.delivery_date ASC, orders.id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get returns an active order with its client.
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Joins("Client").
		Scopes(models.ActiveOrders).
		Where("orders.id = ?", id).
		Take(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &order, nil
}

// ToggleStatus flips an active order between unfulfilled and fulfilled.
func (s *OrderService) ToggleStatus(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	order.ToggleStatus()
	if err := s.db.WithContext(ctx).Model(&models.Order{ID: order.ID}).
		Update("status", order.Status).Error; err != nil {
		return nil, fmt.Errorf("toggle order %d: %w", id, err)
	}
	s.log.WithFields(logrus.Fields{"order_id": order.ID, "status": order.Status}).Info("order status updated")
	return order, nil
}

// Update applies an edit to an active order. On a validation error nothing is
// stored and the returned order carries the submitted values.
func (s *OrderService) Update(ctx context.Context, id uint, p OrderPatch) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	v := make(validation.Violations)
	if p.DeliveryDate != nil {
		if d := validation.Date("delivery_date", *p.DeliveryDate, models.DateLayout, v); !d.IsZero() {
			order.DeliveryDate = d
		}
	}
	if p.ItemsText != nil {
		order.ItemsText = *p.ItemsText
	}
	if p.Notes != nil {
		order.Notes = *p.Notes
	}
	if p.Price != nil {
		order.PriceHKD = validation.Decimal("price_hkd", *p.Price, v)
	}
	if err := invalid(v); err != nil {
		return order, err
	}

	var price any
	if order.PriceHKD.Valid {
		price = order.PriceHKD.Decimal
	}
	err = s.db.WithContext(ctx).Model(&models.Order{ID: order.ID}).Updates(map[string]any{
		"delivery_date": order.DeliveryDate,
		"items_text":    order.ItemsText,
		"notes":         order.Notes,
		"price_hkd":     price,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	s.log.WithField("order_id", order.ID).Info("order updated")
	return order, nil
}

// Archive hides an active order from every listing. The row is kept.
func (s *OrderService) Archive(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Scopes(models.ActiveOrders).
		Where("orders.id = ?", id).
		Update("is_archived", true)
	if res.Error != nil {
		return fmt.Errorf("archive order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.log.WithField("order_id", id).Info("order archived")
	return nil
}

// Dashboard returns the delivery counters and the ten most recent orders.
func (s *OrderService) Dashboard(ctx context.Context) (DashboardStats, []models.Order, error) {
	today := truncateDay(s.now())
	weekEnd := today.AddDate(0, 0, 6)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	var stats DashboardStats
	active := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Order{}).Scopes(models.ActiveOrders)
	}
	if err := active().Where("orders.status = ?", models.OrderStatusUnfulfilled).Count(&stats.Unfulfilled).Error; err != nil {
		return stats, nil, fmt.Errorf("count unfulfilled: %w", err)
	}
	if err := active().Where("orders.delivery_date = ?", today).Count(&stats.Today).Error; err != nil {
		return stats, nil, fmt.Errorf("count today: %w", err)
	}
	if err := active().Where("orders.delivery_date BETWEEN ? AND ?", today, weekEnd).Count(&stats.Week).Error; err != nil {
		return stats, nil, fmt.Errorf("count week: %w", err)
	}
	if err := active().Where("orders.delivery_date BETWEEN ? AND ?", monthStart, monthEnd).Count(&stats.Month).Error; err != nil {
		return stats, nil, fmt.Errorf("count month: %w", err)
	}

	var recent []models.Order
	err := s.db.WithContext(ctx).
		Joins("Client").
		Scopes(models.ActiveOrders).
		Order("orders.created_at DESC, orders.id DESC").
		Limit(10).
		Find(&recent).Error
	if err != nil {
		return stats, nil, fmt.Errorf("recent orders: %w", err)
	}
	return stats, recent, nil
}

// Calendar groups active orders by delivery date, earliest first.
func (s *OrderService) Calendar(ctx context.Context) ([]DeliveryDay, error) {
	orders, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	var days []DeliveryDay
	for _, o := range orders {
		d := truncateDay(o.DeliveryDate)
		if n := len(days); n > 0 && days[n-1].Date.Equal(d) {
			days[n-1].Orders = append(days[n-1].Orders, o)
			continue
		}
		days = append(days, DeliveryDay{Date: d, Orders: []models.Order{o}})
	}
	return days, nil
}

// Active returns every active order with its client, by delivery date.
func (s *OrderService) Active(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Joins("Client").
		Scopes(models.ActiveOrders).
		Order("orders.delivery_date ASC, orders.id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("active orders: %w", err)
	}
	return orders, nil
}

// Revenue sums the price of active fulfilled orders.
func (s *OrderService) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Scopes(models.ActiveOrders).
		Where("orders.status = ?", models.OrderStatusFulfilled).
		Find(&orders).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("revenue: %w", err)
	}
	total := decimal.Zero
	for _, o := range orders {
		if o.PriceHKD.Valid {
			total = total.Add(o.PriceHKD.Decimal)
		}
	}
	return total, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
