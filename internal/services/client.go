package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kewgardenflowers/kgf-orders/internal/models"
	"github.com/kewgardenflowers/kgf-orders/validation"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ContactInput identifies the client placing an order.
type ContactInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// ClientInput is the admin client form. Nil fields are left untouched on update.
type ClientInput struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
}

// ClientService manages clients.
type ClientService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewClientService(db *gorm.DB, log logrus.FieldLogger) *ClientService {
	return &ClientService{db: db, log: log}
}

// ResolveOrCreate finds a client by email, then by phone, and creates one when
// neither matches. A match has its name and address overwritten.
func (s *ClientService) ResolveOrCreate(ctx context.Context, in ContactInput) (*models.Client, error) {
	var client *models.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		client, err = resolveClient(tx, in)
		return err
	})
	return client, err
}

func resolveClient(tx *gorm.DB, in ContactInput) (*models.Client, error) {
	email := models.NormalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)

	var client models.Client
	found := false
	if email != "" {
		err := tx.Scopes(models.ActiveClients).
			Where("LOWER(clients.email) = ?", email).
			Order("clients.id").
			Take(&client).Error
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("match client by email: %w", err)
		}
	}
	if !found && phone != "" {
		err := tx.Scopes(models.ActiveClients).
			Where("clients.phone = ?", phone).
			Order("clients.id").
			Take(&client).Error
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("match client by phone: %w", err)
		}
	}

	if found {
		client.Name = in.Name
		client.Address = in.Address
		if err := tx.Model(&client).Updates(map[string]any{
			"name":    client.Name,
			"address": client.Address,
		}).Error; err != nil {
			return nil, fmt.Errorf("update matched client: %w", err)
		}
		return &client, nil
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Unknown"
	}
	client = models.Client{
		Name:    name,
		Phone:   phone,
		Email:   email,
		Address: in.Address,
	}
	if err := tx.Create(&client).Error; err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &client, nil
}

// List returns active clients ordered by name, optionally filtered by a
// case-insensitive search over name, email and phone.
func (s *ClientService) List(ctx context.Context, query string) ([]models.Client, error) {
	db := s.db.WithContext(ctx).Scopes(models.ActiveClients)
	if q := strings.TrimSpace(query); q != "" {
		like := likePattern(q)
		db = db.Where(
			"LOWER(clients.name) LIKE ? ESCAPE '\\' OR LOWER(clients.email) LIKE ? ESCAPE '\\' OR LOWER(clients.phone) LIKE ? ESCAPE '\\'",
			like, like, like,
		)
	}
	var clients []models.Client
	if err := db.Order("clients.name ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// Get returns an active client with its active orders, latest delivery first.
func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	err := s.db.WithContext(ctx).Scopes(models.ActiveClients).
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Scopes(models.ActiveOrders).Order("orders.delivery_date DESC")
		}).
		Where("clients.id = ?", id).
		Take(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client %d: %w", id, err)
	}
	return &client, nil
}

// Create adds a client from the admin form.
func (s *ClientService) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	client := models.Client{
		Name:    deref(in.Name),
		Phone:   strings.TrimSpace(deref(in.Phone)),
		Email:   strings.TrimSpace(deref(in.Email)),
		Address: deref(in.Address),
		Notes:   deref(in.Notes),
	}
	v := make(validation.Violations)
	validation.Required("name", client.Name, v)
	if err := invalid(v); err != nil {
		return &client, err
	}
	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	s.log.WithField("client_id", client.ID).Info("client created")
	return &client, nil
}

// Update applies the provided fields to an active client.
func (s *ClientService) Update(ctx context.Context, id uint, in ClientInput) (*models.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		client.Name = *in.Name
	}
	if in.Phone != nil {
		client.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		client.Email = strings.TrimSpace(*in.Email)
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	if in.Notes != nil {
		client.Notes = *in.Notes
	}

	v := make(validation.Violations)
	validation.Required("name", client.Name, v)
	if err := invalid(v); err != nil {
		return client, err
	}

	err = s.db.WithContext(ctx).Model(&models.Client{ID: client.ID}).Updates(map[string]any{
		"name":    client.Name,
		"phone":   client.Phone,
		"email":   client.Email,
		"address": client.Address,
		"notes":   client.Notes,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update client %d: %w", id, err)
	}
	s.log.WithField("client_id", client.ID).Info("client updated")
	return client, nil
}

// Archive hides an active client. Its orders keep their association.
func (s *ClientService) Archive(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Client{}).
		Scopes(models.ActiveClients).
		Where("clients.id = ?", id).
		Update("is_archived", true)
	if res.Error != nil {
		return fmt.Errorf("archive client %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.log.WithField("client_id", id).Info("client archived")
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a lower-cased substring pattern for LIKE ... ESCAPE '\'.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
