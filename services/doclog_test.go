package services

import (
	"testing"
	"time"

	"salescrm-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLogVersionNumbers(t *testing.T) {
	db := testDB(t)

	require.NoError(t, RecordLog(db, models.DocTypeQuotation, "QTN0001", ActionCreated, "USR0001"))
	require.NoError(t, RecordLog(db, models.DocTypeQuotation, "QTN0001", ActionUpdated, "USR0002"))
	require.NoError(t, RecordLog(db, models.DocTypeQuotation, "QTN0002", ActionCreated, "USR0001"))

	logs, err := DocumentHistory(db, models.DocTypeQuotation, "QTN0001")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "LOG000001", logs[0].LogID)
	assert.Equal(t, 1, logs[0].VersionNo)
	assert.Equal(t, 2, logs[1].VersionNo)

	// A different document starts back at version 1.
	logs, err = DocumentHistory(db, models.DocTypeQuotation, "QTN0002")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 1, logs[0].VersionNo)
	assert.Equal(t, "LOG000003", logs[0].LogID)
}

func TestListLogsScoping(t *testing.T) {
	db := testDB(t)

	require.NoError(t, RecordLog(db, models.DocTypeQuotation, "QTN0001", ActionCreated, "USR0001"))
	require.NoError(t, RecordLog(db, models.DocTypePI, "PI0001", ActionCreated, "USR0002"))
	require.NoError(t, RecordLog(db, models.DocTypePI, "PI0001", ActionLocked, "USR0002"))

	admin := Actor{UserID: "USR0001", Role: "Admin"}
	all, err := ListLogs(db, admin, LogFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Admin can filter to one user.
	only2, err := ListLogs(db, admin, LogFilter{UserID: "USR0002"})
	require.NoError(t, err)
	assert.Len(t, only2, 2)

	// A sales user sees only their own entries, whatever they ask for.
	sales := Actor{UserID: "USR0001", Role: "Sales User"}
	own, err := ListLogs(db, sales, LogFilter{UserID: "USR0002"})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "USR0001", own[0].UpdatedBy)
}

func TestListLogsTimeWindow(t *testing.T) {
	db := testDB(t)

	old := models.DocumentLog{
		LogID: "LOG000900", DocumentType: "QUOTATION", DocumentID: "QTN0001",
		Action: ActionCreated, UpdatedBy: "USR0001",
		Timestamp: time.Now().UTC().AddDate(0, 0, -45), VersionNo: 1,
	}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, RecordLog(db, models.DocTypeQuotation, "QTN0001", ActionUpdated, "USR0001"))

	admin := Actor{UserID: "USR0001", Role: "Admin"}
	recent, err := ListLogs(db, admin, LogFilter{From: time.Now().UTC().AddDate(0, 0, -30)})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, ActionUpdated, recent[0].Action)
}

func TestSaveVersionSnapshots(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	q, err := CreateQuotation(db, testActor, quotationFixture())
	require.NoError(t, err)
	_, err = UpdateQuotation(db, testActor, q.QuotationID, quotationFixture())
	require.NoError(t, err)

	var versions []models.DocumentVersion
	require.NoError(t, db.Where("document_id = ?", q.QuotationID).
		Order("version_no ASC").Find(&versions).Error)
	require.Len(t, versions, 2)
	assert.Equal(t, 1, versions[0].VersionNo)
	assert.Equal(t, 2, versions[1].VersionNo)
	assert.Contains(t, string(versions[0].Snapshot), q.QuotationNo)
}

