package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	cartdomain "github.com/libreria/bookstore-api/internal/domains/cart/domain"
	"github.com/libreria/bookstore-api/internal/domains/orders/domain"
)

type normalizedCheckout struct {
	UserID string           `json:"userId"`
	Lines  []normalizedLine `json:"lines"`
}

type normalizedLine struct {
	BookID   string  `json:"bookId"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// FingerprintCheckout builds a deterministic hash of a checkout request
// (excluding the idempotency key) so a reused key with a different cart is
// detected as a conflict.
func FingerprintCheckout(user domain.Customer, lines []cartdomain.Line) (string, error) {
	normalized := normalizedCheckout{UserID: user.ID, Lines: make([]normalizedLine, 0, len(lines))}
	for _, line := range lines {
		normalized.Lines = append(normalized.Lines, normalizedLine{
			BookID:   line.Book.ID,
			Price:    line.Book.Price,
			Quantity: line.Quantity,
		})
	}
	sort.Slice(normalized.Lines, func(i, j int) bool {
		return normalized.Lines[i].BookID < normalized.Lines[j].BookID
	})
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
