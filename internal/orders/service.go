package orders

import (
	"errors"

	"dining-backend/internal/domain"
	"dining-backend/internal/models"

	"gorm.io/gorm"
)

// Service enforces the order lifecycle: pending -> completed|cancelled, one
// pending order per table, and a total that is always derived from the lines.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ComputeTotal is the single place an order total is derived. Every mutation
// goes through it; a stored total is never trusted on its own.
func ComputeTotal(lines []models.OrderLine, priceByItem map[uint]float64) float64 {
	var total float64
	for _, line := range lines {
		total += priceByItem[line.MenuItemID] * float64(line.Quantity)
	}
	return total
}

// mergeLines folds new lines into existing ones by menu item: quantities add
// up and a non-empty incoming note replaces the previous one.
func mergeLines(existing models.OrderLines, incoming []models.OrderLine) models.OrderLines {
	merged := make(models.OrderLines, len(existing))
	copy(merged, existing)

	for _, in := range incoming {
		found := false
		for i := range merged {
			if merged[i].MenuItemID == in.MenuItemID {
				merged[i].Quantity += in.Quantity
				if in.Notes != "" {
					merged[i].Notes = in.Notes
				}
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, in)
		}
	}
	return merged
}

func validateLines(lines []models.OrderLine) error {
	for _, line := range lines {
		if line.MenuItemID == 0 {
			return domain.Validation("order line is missing a menu item")
		}
		if line.Quantity < 1 {
			return domain.Validation("order line quantity must be at least 1")
		}
	}
	return nil
}

// priceLookup loads current menu prices for the given lines. Unknown menu
// items surface as a not-found error.
func priceLookup(tx *gorm.DB, lines []models.OrderLine) (map[uint]float64, error) {
	prices := make(map[uint]float64, len(lines))
	if len(lines) == 0 {
		return prices, nil
	}

	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.MenuItemID)
	}

	var items []models.MenuItem
	if err := tx.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, domain.Upstream("could not load menu items")
	}
	for _, item := range items {
		prices[item.ID] = item.Price
	}

	for _, line := range lines {
		if _, ok := prices[line.MenuItemID]; !ok {
			return nil, domain.NotFound("menu item #%d does not exist", line.MenuItemID)
		}
	}
	return prices, nil
}

// OpenOrder creates a pending order on an available table and marks the table
// occupied, as one atomic unit. An empty line list is allowed; that is how
// seated reservations start.
func (s *Service) OpenOrder(tableID uint, lines []models.OrderLine) (*models.Order, error) {
	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		o, err := OpenOrderTx(tx, tableID, lines)
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// OpenOrderTx is OpenOrder inside an existing transaction. Reservation seating
// composes it with its own writes so the whole operation stays atomic.
func OpenOrderTx(tx *gorm.DB, tableID uint, lines []models.OrderLine) (*models.Order, error) {
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("table #%d does not exist", tableID)
		}
		return nil, domain.Upstream("could not load table")
	}
	if table.Status == models.TableStatusOccupied {
		return nil, domain.InvalidState("table #%d is already occupied", tableID)
	}

	merged := mergeLines(nil, lines)
	prices, err := priceLookup(tx, merged)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		TableID: tableID,
		Lines:   merged,
		Total:   ComputeTotal(merged, prices),
		Status:  models.OrderStatusPending,
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, domain.Upstream("could not create order")
	}

	if err := tx.Model(&models.Table{}).
		Where("id = ?", tableID).
		Update("status", models.TableStatusOccupied).Error; err != nil {
		return nil, domain.Upstream("could not update table status")
	}

	return &order, nil
}

// AddLines merges new lines into a pending order and recomputes the total.
func (s *Service) AddLines(orderID string, lines []models.OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, domain.Validation("no order lines to add")
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("no pending order %s", orderID)
			}
			return domain.Upstream("could not load order")
		}

		order.Lines = mergeLines(order.Lines, lines)
		prices, err := priceLookup(tx, order.Lines)
		if err != nil {
			return err
		}
		order.Total = ComputeTotal(order.Lines, prices)

		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{"lines": order.Lines, "total": order.Total}).Error; err != nil {
			return domain.Upstream("could not update order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CompleteOrder settles a pending order: it writes exactly one transaction for
// the recomputed total, marks the order completed and frees the table. The
// three writes run in one database transaction so a partially applied payment
// can never be observed.
func (s *Service) CompleteOrder(orderID string, method models.PaymentMethod) (*models.Transaction, error) {
	switch method {
	case models.PaymentMethodCash, models.PaymentMethodCard:
	default:
		return nil, domain.Validation("payment method must be cash or card")
	}

	var payment models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("order %s does not exist", orderID)
			}
			return domain.Upstream("could not load order")
		}
		if order.Status != models.OrderStatusPending {
			return domain.InvalidState("order %s is %s, only pending orders can be completed", order.ID, order.Status)
		}

		prices, err := priceLookup(tx, order.Lines)
		if err != nil {
			return err
		}
		total := ComputeTotal(order.Lines, prices)

		payment = models.Transaction{
			OrderID:       order.ID,
			Amount:        total,
			PaymentMethod: method,
			Status:        models.TransactionStatusCompleted,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return domain.Upstream("could not create transaction")
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{"status": models.OrderStatusCompleted, "total": total}).Error; err != nil {
			return domain.Upstream("could not update order")
		}

		if err := tx.Model(&models.Table{}).
			Where("id = ?", order.TableID).
			Update("status", models.TableStatusAvailable).Error; err != nil {
			return domain.Upstream("could not update table status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CancelOrder voids a pending order and frees its table. No transaction row
// is written.
func (s *Service) CancelOrder(orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("order %s does not exist", orderID)
			}
			return domain.Upstream("could not load order")
		}
		if order.Status != models.OrderStatusPending {
			return domain.InvalidState("order %s is %s, only pending orders can be cancelled", order.ID, order.Status)
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", models.OrderStatusCancelled).Error; err != nil {
			return domain.Upstream("could not update order")
		}
		order.Status = models.OrderStatusCancelled

		if err := tx.Model(&models.Table{}).
			Where("id = ?", order.TableID).
			Update("status", models.TableStatusAvailable).Error; err != nil {
			return domain.Upstream("could not update table status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// PendingOrderByTable returns the open order of an occupied table.
func (s *Service) PendingOrderByTable(tableID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Where("table_id = ? AND status = ?", tableID, models.OrderStatusPending).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("table #%d has no pending order", tableID)
		}
		return nil, domain.Upstream("could not load order")
	}
	return &order, nil
}
