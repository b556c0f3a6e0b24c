package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/pointage/internal/common"
	"github.com/Veraticus/pointage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

func testReport() *model.Report {
	return &model.Report{
		Range: model.DateRange{Start: "03/03/2025", End: "04/03/2025"},
		Rows: []model.LedgerRow{
			{
				ComputedEntry: model.ComputedEntry{
					EmployeeID: "1001", DateText: "03/03/2025",
					WorkDuration: "08:00", StandardWork: "08:00",
				},
				CumulativeShortfall: "00:00",
			},
			{
				ComputedEntry: model.ComputedEntry{
					EmployeeID: "1001", DateText: "04/03/2025",
					WorkDuration: "07:30", StandardWork: "08:00", Shortfall: "00:30",
				},
				CumulativeShortfall: "00:30",
			},
			{
				ComputedEntry: model.ComputedEntry{
					EmployeeID: "1002", DateText: "03/03/2025",
					WorkDuration: "08:00", StandardWork: "08:00",
					Observation: model.ObservationVerifyPrefix + "09:00 09:02 13:00 14:00 18:00",
				},
			},
		},
	}
}

func TestPrepareValues(t *testing.T) {
	values := prepareValues(testReport())

	require.Len(t, values, 6)
	assert.Equal(t, []any{"From 03/03/2025 to 04/03/2025"}, values[0])
	assert.Empty(t, values[1])
	require.Len(t, values[2], len(model.LedgerColumns))
	assert.Equal(t, "Matricule", values[2][0])
	assert.Equal(t, "Observations", values[2][model.ColumnObservation])

	assert.Equal(t, "1001", values[3][0])
	assert.Equal(t, "07:30", values[4][model.ColumnWorked])
	assert.Equal(t, "00:30", values[4][model.ColumnShortfall])
	assert.Contains(t, values[5][model.ColumnObservation], "to verify")
}

func TestFormatRequests(t *testing.T) {
	const sheetID = int64(42)
	requests := formatRequests(sheetID, testReport())

	var fills, alerts []*sheets.GridRange
	var merged *sheets.GridRange
	for _, r := range requests {
		switch {
		case r.MergeCells != nil:
			merged = r.MergeCells.Range
		case r.RepeatCell != nil && r.RepeatCell.Fields == "userEnteredFormat.backgroundColor":
			fills = append(fills, r.RepeatCell.Range)
		case r.RepeatCell != nil && r.RepeatCell.Fields == "userEnteredFormat.textFormat.foregroundColor":
			alerts = append(alerts, r.RepeatCell.Range)
		}
	}

	require.NotNil(t, merged)
	assert.Equal(t, int64(len(model.LedgerColumns)), merged.EndColumnIndex)
	assert.Equal(t, sheetID, merged.SheetId)

	// Only the repaired row is highlighted.
	require.Len(t, fills, 1)
	assert.Equal(t, int64(firstDataRowIdx+2), fills[0].StartRowIndex)

	// Worked and shortfall cells of the short day.
	require.Len(t, alerts, 2)
	assert.Equal(t, int64(firstDataRowIdx+1), alerts[0].StartRowIndex)
	assert.Equal(t, int64(model.ColumnWorked), alerts[0].StartColumnIndex)
	assert.Equal(t, int64(model.ColumnShortfall), alerts[1].StartColumnIndex)

	last := requests[len(requests)-1]
	require.NotNil(t, last.UpdateSheetProperties)
	assert.Equal(t, int64(firstDataRowIdx), last.UpdateSheetProperties.Properties.GridProperties.FrozenRowCount)
}

func TestClassifyAPIError(t *testing.T) {
	assert.NoError(t, classifyAPIError(nil))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, classifyAPIError(plain))

	limited := classifyAPIError(&googleapi.Error{Code: http.StatusTooManyRequests})
	assert.ErrorIs(t, limited, common.ErrRateLimit)
	assert.True(t, common.IsRetryable(limited))

	server := classifyAPIError(&googleapi.Error{Code: http.StatusBadGateway})
	var retryable *common.RetryableError
	assert.False(t, errors.As(server, &retryable))

	forbidden := classifyAPIError(&googleapi.Error{Code: http.StatusForbidden})
	require.ErrorAs(t, forbidden, &retryable)
	assert.False(t, retryable.Retryable)
}

func TestFindSheet(t *testing.T) {
	spreadsheet := &sheets.Spreadsheet{
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: "Other", SheetId: 1}},
			{Properties: &sheets.SheetProperties{Title: DefaultSpreadsheetName, SheetId: 7}},
		},
	}

	id, ok := findSheet(spreadsheet, DefaultSpreadsheetName)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = findSheet(spreadsheet, "missing")
	assert.False(t, ok)
}

func TestSheetRange(t *testing.T) {
	assert.Equal(t, "'Etat de pointage'!A:Z", sheetRange("Etat de pointage", "A:Z"))
}

func TestCallbackHandler(t *testing.T) {
	codes := make(chan string, 1)
	errs := make(chan error, 1)
	handler := callbackHandler(codes, errs)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/callback?code=abc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", <-codes)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/callback", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Error(t, <-errs)
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sheets-token.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, saveToken(path, token))

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))

	_, err = LoadToken(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestMockWriter(t *testing.T) {
	mock := NewMockWriter()
	report := testReport()

	require.NoError(t, mock.Write(context.Background(), report))
	assert.Equal(t, 1, mock.WriteCallCount)
	assert.Same(t, report, mock.LastReport)

	mock.SetWriteError(common.ErrSheetsUnavailable)
	err := mock.Write(context.Background(), report)
	assert.ErrorIs(t, err, common.ErrSheetsUnavailable)

	calls := mock.GetWriteCalls()
	require.Len(t, calls, 2)
	assert.NoError(t, calls[0].Error)
	assert.ErrorIs(t, calls[1].Error, common.ErrSheetsUnavailable)
}
