package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atharv3903/borderroute/internal/dataset"
)

func TestSplitBorders(t *testing.T) {
	assert.Equal(t, []string{}, splitBorders(""))
	assert.Equal(t, []string{}, splitBorders(" , ,"))
	assert.Equal(t, []string{"AUT", "DEU", "POL"}, splitBorders("AUT, DEU ,POL"))
}

func TestToRecord(t *testing.T) {
	r := toRecord(" CZE ", "Czechia", "AUT,DEU",
		sql.NullFloat64{Float64: 49.75, Valid: true},
		sql.NullFloat64{Float64: 15.5, Valid: true})
	assert.Equal(t, "CZE", r.Code)
	assert.Equal(t, "Czechia", r.Name.Common)
	assert.Equal(t, []string{"AUT", "DEU"}, r.Borders)
	assert.Equal(t, []float64{49.75, 15.5}, r.LatLng)

	island := toRecord("ISL", "Iceland", "", sql.NullFloat64{}, sql.NullFloat64{Float64: -18, Valid: true})
	assert.Nil(t, island.LatLng)
	assert.Empty(t, island.Borders)
}

func TestOpenRejectsBadDSN(t *testing.T) {
	_, err := Open(context.Background(), "not a dsn")
	assert.ErrorIs(t, err, dataset.ErrLoad)
}

const loadQuery = `SELECT cca3, name, borders, lat, lng\s+FROM countries\s+ORDER BY cca3`

var columns = []string{"cca3", "name", "borders", "lat", "lng"}

func newMock(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return Store{DB: conn}, mock
}

func TestLoad(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(loadQuery).WillReturnRows(sqlmock.NewRows(columns).
		AddRow("AUT", "Austria", "CZE,ITA", 47.33, 13.33).
		AddRow("CZE", "Czechia", "AUT", 49.75, 15.5).
		AddRow("ISL", "Iceland", "", nil, nil))

	records, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "AUT", records[0].Code)
	assert.Equal(t, "Austria", records[0].Name.Common)
	assert.Equal(t, []string{"CZE", "ITA"}, records[0].Borders)
	assert.Equal(t, []float64{47.33, 13.33}, records[0].LatLng)
	assert.Nil(t, records[2].LatLng, "NULL coordinates")
	assert.Empty(t, records[2].Borders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadFailures(t *testing.T) {
	cases := map[string]func(sqlmock.Sqlmock){
		"empty table": func(m sqlmock.Sqlmock) {
			m.ExpectQuery(loadQuery).WillReturnRows(sqlmock.NewRows(columns))
		},
		"query error": func(m sqlmock.Sqlmock) {
			m.ExpectQuery(loadQuery).WillReturnError(errors.New("table missing"))
		},
		"scan error": func(m sqlmock.Sqlmock) {
			m.ExpectQuery(loadQuery).WillReturnRows(sqlmock.NewRows(columns).
				AddRow("AUT", "Austria", "CZE", "north", 13.33))
		},
		"row error": func(m sqlmock.Sqlmock) {
			m.ExpectQuery(loadQuery).WillReturnRows(sqlmock.NewRows(columns).
				AddRow("AUT", "Austria", "CZE", 47.33, 13.33).
				RowError(0, errors.New("connection reset")))
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			s, mock := newMock(t)
			setup(mock)

			_, err := s.Load(context.Background())
			assert.ErrorIs(t, err, dataset.ErrLoad)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
