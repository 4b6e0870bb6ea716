package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regtrack/internal/domain"
)

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", d.String())

	_, err = domain.ParseDate("15/03/2026")
	assert.Error(t, err)
}

func TestNewDate_TruncatesTime(t *testing.T) {
	d := domain.NewDate(time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "2026-01-31", d.String())
	assert.Equal(t, "2026-02-01", d.AddDays(1).String())
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Expiry *domain.Date `json:"expiry"`
		Due    domain.Date  `json:"due"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"expiry":"2027-06-30","due":null}`), &p))
	require.NotNil(t, p.Expiry)
	assert.Equal(t, "2027-06-30", p.Expiry.String())
	assert.True(t, p.Due.IsZero())

	out, err := json.Marshal(payload{Due: domain.NewDate(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"expiry":null,"due":"2026-05-01"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"due":"tomorrow"}`), &p))
}

func TestDate_ScanAndValue(t *testing.T) {
	var d domain.Date
	require.NoError(t, d.Scan(time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-02-03", d.String())

	require.NoError(t, d.Scan([]byte("2026-02-04")))
	assert.Equal(t, "2026-02-04", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}
