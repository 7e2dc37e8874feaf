package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"gorm.io/gorm"

	"github.com/photolab/photolab-api/models"
	"github.com/photolab/photolab-api/utils"
)

// defaultProcessingHours is the due-date allowance when a service has none.
const defaultProcessingHours = 24

// orderNumberAttempts bounds the retry loop when a generated order number
// collides with a concurrent placement.
const orderNumberAttempts = 3

// OrderService owns the order ledger: placement, status workflow, queries.
type OrderService struct {
	db      *gorm.DB
	storage FileStorage
}

// NewOrderService creates an OrderService on the given store and storage.
func NewOrderService(db *gorm.DB, storage FileStorage) *OrderService {
	return &OrderService{db: db, storage: storage}
}

// PlaceOrderInput carries the order-creation form fields and uploads.
type PlaceOrderInput struct {
	CustomerID uint
	ServiceID  uint
	Quantity   int
	Notes      string
	Files      []*multipart.FileHeader
}

// PlaceOrderResult is the created order plus the per-file upload outcome.
// Files with a disallowed extension are dropped, not an order failure.
type PlaceOrderResult struct {
	Order         *models.Order
	AcceptedFiles []string
	RejectedFiles []string
}

// PlaceOrder validates the referenced service and quantity, allocates an
// order number, fixes price and due date, persists the order and records the
// accepted uploads.
//
// Price and due date are evaluated exactly once here; later edits to the
// catalog entry never change an existing order. An inactive service can
// still be ordered by id.
func (s *OrderService) PlaceOrder(in PlaceOrderInput) (*PlaceOrderResult, error) {
	var service models.Service
	if err := s.db.First(&service, in.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}

	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	hours := defaultProcessingHours
	if service.ProcessingTime != nil && *service.ProcessingTime > 0 {
		hours = *service.ProcessingTime
	}

	order := models.Order{
		CustomerID: in.CustomerID,
		ServiceID:  service.ID,
		Status:     models.StatusPending,
		Quantity:   in.Quantity,
		TotalPrice: service.Price * float64(in.Quantity),
		Notes:      in.Notes,
		DueDate:    now.Add(time.Duration(hours) * time.Hour),
	}

	if err := s.insertWithUniqueNumber(&order, now); err != nil {
		return nil, err
	}

	result := &PlaceOrderResult{Order: &order}
	for _, fileHeader := range in.Files {
		if fileHeader == nil || fileHeader.Filename == "" {
			continue
		}
		if !utils.IsAllowedFile(fileHeader.Filename) {
			result.RejectedFiles = append(result.RejectedFiles, fileHeader.Filename)
			continue
		}

		storedName := utils.StoredFilename(order.ID, time.Now(), fileHeader.Filename)
		if err := s.storage.Save(storedName, fileHeader); err != nil {
			// The order is already persisted; it is not rolled back when an
			// attachment fails.
			return nil, fmt.Errorf("failed to store attachment %q: %w", fileHeader.Filename, err)
		}

		orderFile := models.OrderFile{
			OrderID:          order.ID,
			Filename:         storedName,
			OriginalFilename: utils.SanitizeFilename(fileHeader.Filename),
			FileSize:         fileHeader.Size,
		}
		if err := s.db.Create(&orderFile).Error; err != nil {
			return nil, fmt.Errorf("failed to record attachment: %w", err)
		}
		result.AcceptedFiles = append(result.AcceptedFiles, fileHeader.Filename)
	}

	if err := s.db.Preload("Customer").Preload("Service").Preload("Files").First(&order, order.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	result.Order = &order

	return result, nil
}

// insertWithUniqueNumber persists the order under a count-derived number,
// retrying against the unique index when a concurrent placement takes the
// same number. The count is re-read on every attempt, so a conflicting
// committed insert moves the sequence forward.
func (s *OrderService) insertWithUniqueNumber(order *models.Order, now time.Time) error {
	var lastErr error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		var count int64
		if err := s.db.Model(&models.Order{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count orders: %w", err)
		}

		order.ID = 0
		order.OrderNumber = fmt.Sprintf("PL%s%04d", now.Format("20060102"), count+1+int64(attempt))

		lastErr = s.db.Create(order).Error
		if lastErr == nil {
			return nil
		}
		if !isUniqueViolation(lastErr) {
			return fmt.Errorf("failed to create order: %w", lastErr)
		}
	}
	return fmt.Errorf("could not allocate a unique order number: %w", lastErr)
}

// TransitionStatus moves an order to any of the five defined statuses.
// Only staff roles may call it; there is no transition graph beyond the
// value-set check, backward moves and self-transitions included.
//
// Entering completed stamps CompletedAt; leaving it never clears the stamp.
func (s *OrderService) TransitionStatus(orderID uint, newStatus models.OrderStatus, actingRole models.Role) (*models.Order, error) {
	if !actingRole.IsStaff() {
		return nil, ErrForbidden
	}
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	order.Status = newStatus
	if newStatus == models.StatusCompleted {
		now := time.Now()
		order.CompletedAt = &now
	}

	if err := s.db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return &order, nil
}

// Get returns one order by id. Clients may only read their own orders.
func (s *OrderService) Get(actor *models.User, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Customer").Preload("Service").Preload("Files").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if !actor.Role.IsStaff() && order.CustomerID != actor.ID {
		return nil, ErrForbidden
	}

	return &order, nil
}

// List returns orders visible to the actor, newest first. Clients see only
// their own orders; staff see all.
func (s *OrderService) List(actor *models.User) ([]models.Order, error) {
	return s.Search(actor, "", "")
}

// Search filters the actor-visible orders by an order-number/notes substring
// and an exact status, both optional and combined with AND. Newest first.
func (s *OrderService) Search(actor *models.User, freeText string, statusFilter models.OrderStatus) ([]models.Order, error) {
	query := s.db.Preload("Customer").Preload("Service").Preload("Files")

	if !actor.Role.IsStaff() {
		query = query.Where("customer_id = ?", actor.ID)
	}
	if freeText != "" {
		pattern := "%" + freeText + "%"
		query = query.Where("order_number LIKE ? OR notes LIKE ?", pattern, pattern)
	}
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	return orders, nil
}

// Export returns the actor-visible orders in the flattened summary form.
func (s *OrderService) Export(actor *models.User) ([]models.OrderSummary, error) {
	orders, err := s.List(actor)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.OrderSummary, 0, len(orders))
	for i := range orders {
		summaries = append(summaries, orders[i].Summary())
	}
	return summaries, nil
}

// StaffStats is the dashboard aggregate over the whole ledger.
type StaffStats struct {
	TotalOrders      int64   `json:"total_orders"`
	PendingOrders    int64   `json:"pending_orders"`
	ProcessingOrders int64   `json:"processing_orders"`
	ReadyOrders      int64   `json:"ready_orders"`
	TotalRevenue     float64 `json:"total_revenue"`
}

// ClientStats is the dashboard aggregate over one customer's orders.
type ClientStats struct {
	TotalOrders   int64 `json:"total_orders"`
	PendingOrders int64 `json:"pending_orders"`
	ReadyOrders   int64 `json:"ready_orders"`
}

// Stats computes the ledger-wide dashboard counters. Revenue sums the total
// price of completed orders.
func (s *OrderService) Stats() (*StaffStats, error) {
	stats := &StaffStats{}

	if err := s.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	counts := []struct {
		status models.OrderStatus
		dest   *int64
	}{
		{models.StatusPending, &stats.PendingOrders},
		{models.StatusProcessing, &stats.ProcessingOrders},
		{models.StatusReady, &stats.ReadyOrders},
	}
	for _, c := range counts {
		if err := s.db.Model(&models.Order{}).Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s orders: %w", c.status, err)
		}
	}

	err := s.db.Model(&models.Order{}).
		Where("status = ?", models.StatusCompleted).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return stats, nil
}

// StatsForCustomer computes the dashboard counters for one customer.
func (s *OrderService) StatsForCustomer(customerID uint) (*ClientStats, error) {
	stats := &ClientStats{}
	base := func() *gorm.DB {
		return s.db.Model(&models.Order{}).Where("customer_id = ?", customerID)
	}

	if err := base().Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := base().Where("status = ?", models.StatusPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}
	if err := base().Where("status = ?", models.StatusReady).Count(&stats.ReadyOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count ready orders: %w", err)
	}

	return stats, nil
}
