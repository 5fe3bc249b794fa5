package google

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"tracker/internal/core"
)

func readCredentials(opts Options) ([]byte, error) {
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		return []byte(opts.CredentialsJSON), nil
	case strings.TrimSpace(opts.CredentialsFile) != "":
		b, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// rowFromTransaction lays a transaction out as [id, type, amount, category, note, date].
func rowFromTransaction(tx core.Transaction) []any {
	return []any{
		strconv.FormatInt(tx.ID, 10),
		string(tx.Type),
		strconv.FormatFloat(tx.Amount.Float(), 'f', -1, 64),
		tx.Category,
		tx.Note,
		tx.Date,
	}
}

// findRowByID returns the zero-based row index whose first cell equals id, or -1.
func findRowByID(values [][]any, id int64) int {
	want := strconv.FormatInt(id, 10)
	for i, row := range values {
		if safeGet(toStrings(row), 0) == want {
			return i
		}
	}
	return -1
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
