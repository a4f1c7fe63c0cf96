package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/placementdesk/backend/internal/ledger"
	"github.com/placementdesk/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// ReceiptTTL is how long an issued receipt code can be verified.
const ReceiptTTL = 30 * 24 * time.Hour

// Receipt is the payload encoded in a transaction receipt QR code.
type Receipt struct {
	Code          string                 `json:"code"`
	TransactionID string                 `json:"transactionId"`
	Date          string                 `json:"date"`
	Type          models.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	Display       string                 `json:"display"`
	From          string                 `json:"from"`
	To            string                 `json:"to"`
	Reference     string                 `json:"reference,omitempty"`
	IssuedAt      time.Time              `json:"issuedAt"`
}

// IssuedReceipt is a receipt with its QR image.
type IssuedReceipt struct {
	Receipt
	QRImage string `json:"qrImage"` // base64 PNG
}

type ReceiptService struct {
	state    LedgerState
	redis    *redis.Client
	currency string
	now      clock
	newCode  func() string
}

// NewReceiptService issues receipts. Without Redis receipts are still issued
// but cannot be verified later.
func NewReceiptService(state LedgerState, redisClient *redis.Client, currency string) *ReceiptService {
	return &ReceiptService{state: state, redis: redisClient, currency: currency, now: time.Now, newCode: generateCode}
}

func (s *ReceiptService) Issue(ctx context.Context, transactionID string) (IssuedReceipt, error) {
	snap := s.state.Snapshot()
	t, ok := snap.Transaction(transactionID)
	if !ok {
		return IssuedReceipt{}, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
	}

	from, _ := entityName(snap, t.FromEntityID, t.FromEntityType)
	to, _ := entityName(snap, t.ToEntityID, t.ToEntityType)
	receipt := Receipt{
		Code:          s.newCode(),
		TransactionID: t.ID,
		Date:          t.Date,
		Type:          t.Type,
		Amount:        t.Amount,
		Display:       ledger.FormatAmount(t.Amount, s.currency),
		From:          from,
		To:            to,
		Reference:     t.Reference,
		IssuedAt:      s.now().UTC(),
	}

	jsonData, err := json.Marshal(receipt)
	if err != nil {
		return IssuedReceipt{}, err
	}

	if s.redis != nil {
		key := fmt.Sprintf("receipt:%s", receipt.Code)
		if err := s.redis.Set(ctx, key, jsonData, ReceiptTTL).Err(); err != nil {
			return IssuedReceipt{}, err
		}
	}

	qr, err := qrcode.New(string(jsonData), qrcode.Medium)
	if err != nil {
		return IssuedReceipt{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return IssuedReceipt{}, err
	}

	return IssuedReceipt{Receipt: receipt, QRImage: base64.StdEncoding.EncodeToString(buf.Bytes())}, nil
}

// Verify returns the receipt issued under code.
func (s *ReceiptService) Verify(ctx context.Context, code string) (Receipt, error) {
	if s.redis == nil {
		return Receipt{}, fmt.Errorf("receipt %s: %w", code, ErrNotFound)
	}
	data, err := s.redis.Get(ctx, fmt.Sprintf("receipt:%s", code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Receipt{}, fmt.Errorf("receipt %s: %w", code, ErrNotFound)
	}
	if err != nil {
		return Receipt{}, err
	}

	var receipt Receipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

func generateCode() string {
	b := make([]byte, 12)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
