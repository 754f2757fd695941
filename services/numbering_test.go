package services

import (
	"testing"

	"salescrm-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIDSequence(t *testing.T) {
	db := testDB(t)

	for i, want := range []string{"PTY0001", "PTY0002", "PTY0003"} {
		got, err := NextID(db, "party", "PTY", 4)
		require.NoError(t, err, "issue %d", i)
		assert.Equal(t, want, got)
	}

	// Independent kinds keep independent sequences.
	got, err := NextID(db, "item", "ITM", 4)
	require.NoError(t, err)
	assert.Equal(t, "ITM0001", got)
}

func TestIssueNumberUsesSettingsPrefix(t *testing.T) {
	db := testDB(t)

	id, no, err := IssueNumber(db, models.DocTypeQuotation)
	require.NoError(t, err)
	assert.Equal(t, "QTN0001", id)
	assert.Equal(t, "QTN0001", no)

	// Changing the display prefix must not change the id prefix, and the
	// shared sequence keeps climbing.
	require.NoError(t, db.Model(&models.Settings{}).
		Where("settings_id = ?", "default").
		Update("quotation_prefix", "QU").Error)

	id, no, err = IssueNumber(db, models.DocTypeQuotation)
	require.NoError(t, err)
	assert.Equal(t, "QTN0002", id)
	assert.Equal(t, "QU0002", no)

	id, no, err = IssueNumber(db, models.DocTypePI)
	require.NoError(t, err)
	assert.Equal(t, "PI0001", id)
	assert.Equal(t, "PI0001", no)
}

func TestQuotationDisplayNo(t *testing.T) {
	assert.Equal(t, "QTN0005/RAME", QuotationDisplayNo("QTN0005", "Ramesh Kumar"))
	assert.Equal(t, "QTN0005/JO", QuotationDisplayNo("QTN0005", "Jo"))
	assert.Equal(t, "QTN0005/USER", QuotationDisplayNo("QTN0005", "  "))
	// Multi-byte names truncate at rune boundaries.
	assert.Equal(t, "QTN0005/RAJÚ", QuotationDisplayNo("QTN0005", "rajú sharma"))
}

func TestGetOrCreateSettings(t *testing.T) {
	db := testDB(t)

	s, err := GetOrCreateSettings(db)
	require.NoError(t, err)
	assert.Equal(t, "default", s.SettingsID)
	assert.Equal(t, "QTN", s.QuotationPrefix)
	assert.Equal(t, "PI", s.PIPrefix)
	assert.Equal(t, "SOA", s.SOAPrefix)

	var count int64
	require.NoError(t, db.Model(&models.Settings{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Second call reads the same row.
	again, err := GetOrCreateSettings(db)
	require.NoError(t, err)
	assert.Equal(t, s.SettingsID, again.SettingsID)
}
