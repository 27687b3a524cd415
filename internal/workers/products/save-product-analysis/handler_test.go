// internal/workers/products/save-product-analysis/handler_test.go
package saveproductanalysis

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"dropship-workers/internal/common/errors"
	"dropship-workers/internal/common/logger"
	"dropship-workers/internal/scoring"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func createTestHandler(t *testing.T, db *sql.DB, history bool) *Handler {
	cfg := DefaultConfig()
	cfg.RecordHistory = history

	h, err := NewHandler(HandlerOptions{CustomConfig: cfg, DB: db, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	h.now = func() time.Time { return fixedNow }
	return h
}

func createWinningAnalysis() *scoring.ProductAnalysis {
	return scoring.Analyze(scoring.ProductSignal{
		Rating:        4.8,
		ReviewCount:   12000,
		OrderCount:    60000,
		SupplierPrice: 8,
		ImageCount:    6,
		Source:        scoring.SourceAliExpress,
	}, nil)
}

func jsonBytes(t *testing.T, v interface{}) []byte {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_UpdatesProduct(t *testing.T) {
	db, mock := setupMockDB(t)
	h := createTestHandler(t, db, false)
	analysis := createWinningAnalysis()

	mock.ExpectExec(`UPDATE products SET`).
		WithArgs(
			100,
			"high",
			jsonBytes(t, analysis.Reasons),
			[]byte("[]"),
			true,
			"24.99",
			fixedNow,
			"prod-1",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := h.Execute(context.Background(), &Input{ProductID: "prod-1", Analysis: analysis})
	require.NoError(t, err)

	assert.True(t, out.Saved)
	assert.Equal(t, "prod-1", out.ProductID)
	assert.Equal(t, fixedNow, out.AnalyzedAt)
	assert.Empty(t, out.HistoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_RecordsHistory(t *testing.T) {
	db, mock := setupMockDB(t)
	h := createTestHandler(t, db, true)
	analysis := createWinningAnalysis()

	mock.ExpectExec(`UPDATE products SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO product_analysis_history`).
		WithArgs(sqlmock.AnyArg(), "prod-1", 100, "high", true, jsonBytes(t, analysis), fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	out, err := h.Execute(context.Background(), &Input{ProductID: "prod-1", Analysis: analysis})
	require.NoError(t, err)

	assert.Len(t, out.HistoryID, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_HistoryFailureIsNotFatal(t *testing.T) {
	db, mock := setupMockDB(t)
	h := createTestHandler(t, db, true)

	mock.ExpectExec(`UPDATE products SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO product_analysis_history`).WillReturnError(stderrors.New("relation does not exist"))

	out, err := h.Execute(context.Background(), &Input{ProductID: "prod-1", Analysis: createWinningAnalysis()})
	require.NoError(t, err)

	assert.True(t, out.Saved)
	assert.Empty(t, out.HistoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		setup     func(mock sqlmock.Sqlmock)
		wantCode  errors.ErrorCode
		retryable bool
	}{
		{
			name:     "unknown product",
			input:    &Input{ProductID: "missing", Analysis: createWinningAnalysis()},
			setup:    func(m sqlmock.Sqlmock) { m.ExpectExec(`UPDATE products`).WillReturnResult(sqlmock.NewResult(0, 0)) },
			wantCode: errors.ErrCodeProductNotFound,
		},
		{
			name:      "database failure",
			input:     &Input{ProductID: "prod-1", Analysis: createWinningAnalysis()},
			setup:     func(m sqlmock.Sqlmock) { m.ExpectExec(`UPDATE products`).WillReturnError(sql.ErrConnDone) },
			wantCode:  errors.ErrCodeAnalysisPersistFailed,
			retryable: true,
		},
		{
			name:     "missing analysis",
			input:    &Input{ProductID: "prod-1"},
			setup:    func(sqlmock.Sqlmock) {},
			wantCode: errors.ErrCodeValidationFailed,
		},
		{
			name:     "missing product id",
			input:    &Input{Analysis: createWinningAnalysis()},
			setup:    func(sqlmock.Sqlmock) {},
			wantCode: errors.ErrCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			h := createTestHandler(t, db, true)
			tt.setup(mock)

			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)

			std := errors.AsStandardError(err)
			assert.Equal(t, tt.wantCode, std.Code)
			assert.Equal(t, tt.retryable, std.Retryable)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNewHandler_RequiresDB(t *testing.T) {
	_, err := NewHandler(HandlerOptions{})
	assert.Error(t, err)
}
