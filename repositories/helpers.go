package repositories

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// int64Array adapts an id slice to the pq driver's integer[] representation.
func int64Array(ids []int) pq.Int64Array {
	out := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func intSlice(arr pq.Int64Array) []int {
	out := make([]int, len(arr))
	for i, id := range arr {
		out[i] = int(id)
	}
	return out
}
