// Package register closes out the cash register: it previews the completed
// transactions accumulated since the last cash-out and persists immutable
// settlement records.
package register

import (
	"errors"
	"time"

	"dining-backend/internal/domain"
	"dining-backend/internal/models"

	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// PendingSummary is the settlement preview: every completed transaction since
// the previous cash-out, split by payment method.
type PendingSummary struct {
	Since        *time.Time           `json:"since"`
	TotalCash    float64              `json:"total_cash"`
	TotalCard    float64              `json:"total_card"`
	Transactions []models.Transaction `json:"transactions"`
}

// lastCashOut returns the most recent settlement, or nil when none exists.
func lastCashOut(tx *gorm.DB) (*models.CashOut, error) {
	var last models.CashOut
	err := tx.Order("end_time DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Upstream("could not load last cash-out")
	}
	return &last, nil
}

// pendingTransactions lists completed transactions in the open window. The
// window filter alone keeps settled transactions out of later previews; the
// rows themselves are never touched.
func pendingTransactions(tx *gorm.DB, since *time.Time) ([]models.Transaction, error) {
	dbq := tx.Model(&models.Transaction{}).
		Where("status = ?", models.TransactionStatusCompleted)
	if since != nil {
		dbq = dbq.Where("created_at >= ?", *since)
	}

	var txs []models.Transaction
	if err := dbq.Order("created_at ASC").Find(&txs).Error; err != nil {
		return nil, domain.Upstream("could not load transactions")
	}
	return txs, nil
}

func splitByMethod(txs []models.Transaction) (cash, card float64) {
	for _, t := range txs {
		switch t.PaymentMethod {
		case models.PaymentMethodCash:
			cash += t.Amount
		case models.PaymentMethodCard:
			card += t.Amount
		}
	}
	return cash, card
}

// PreviewPending summarizes what the next cash-out would settle.
func (s *Service) PreviewPending() (*PendingSummary, error) {
	last, err := lastCashOut(s.db)
	if err != nil {
		return nil, err
	}

	var since *time.Time
	if last != nil {
		since = &last.EndTime
	}

	txs, err := pendingTransactions(s.db, since)
	if err != nil {
		return nil, err
	}

	cash, card := splitByMethod(txs)
	return &PendingSummary{
		Since:        since,
		TotalCash:    cash,
		TotalCard:    card,
		Transactions: txs,
	}, nil
}

// Close settles the open window into a new immutable cash-out. The window
// starts where the previous one ended (or at the earliest pending transaction)
// and its initial amount is the previous final amount, 0 for the first.
func (s *Service) Close() (*models.CashOut, error) {
	var cashOut models.CashOut
	err := s.db.Transaction(func(tx *gorm.DB) error {
		last, err := lastCashOut(tx)
		if err != nil {
			return err
		}

		var since *time.Time
		if last != nil {
			since = &last.EndTime
		}

		txs, err := pendingTransactions(tx, since)
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			return domain.Validation("no transactions to cash out")
		}

		cash, card := splitByMethod(txs)

		start := txs[0].CreatedAt
		if last != nil {
			start = last.EndTime
		}
		initial := 0.0
		if last != nil {
			initial = last.FinalAmount
		}

		cashOut = models.CashOut{
			StartTime:     start,
			EndTime:       time.Now(),
			InitialAmount: initial,
			FinalAmount:   initial + cash + card,
			TotalCash:     cash,
			TotalCard:     card,
		}
		if err := tx.Create(&cashOut).Error; err != nil {
			return domain.Upstream("could not create cash-out")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cashOut, nil
}
