package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
)

const timeFormat = time.RFC3339Nano

// DefaultLimit is used when a caller asks for a page without a size.
const DefaultLimit = 50

// MaxLimit caps page sizes requested by clients.
const MaxLimit = 500

// EncodeToken creates a base64 encoded token from the last line of a ledger page.
func EncodeToken(cursor domain.LedgerCursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", cursor.EntryDate.Format(timeFormat), cursor.CreatedAt.Format(timeFormat), cursor.LineID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (domain.LedgerCursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return domain.LedgerCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return domain.LedgerCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return domain.LedgerCursor{}, fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return domain.LedgerCursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	if parts[2] == "" {
		return domain.LedgerCursor{}, fmt.Errorf("invalid pagination token format (missing line id)")
	}

	return domain.LedgerCursor{EntryDate: entryDate, CreatedAt: createdAt, LineID: parts[2]}, nil
}

// NormalizeLimit clamps a requested page size.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
