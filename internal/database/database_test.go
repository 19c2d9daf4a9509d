package database

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"labscan/internal/types"
)

type AdmissionSuite struct {
	suite.Suite
	ctx     context.Context
	today   time.Time
	store   *MemoryStore
	manager *DatabaseManager
}

func TestAdmissionSuite(t *testing.T) {
	suite.Run(t, new(AdmissionSuite))
}

func (s *AdmissionSuite) SetupTest() {
	s.ctx = context.Background()
	s.today = time.Date(2024, time.May, 20, 15, 30, 0, 0, time.UTC)
	s.store = NewMemoryStore(SchemaV2, func() time.Time { return s.today })
	s.manager = NewDatabaseManager(s.store, nil)
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (s *AdmissionSuite) TestRecordWithoutIndicatorsIsNotStored() {
	s.Run("all absent", func() {
		ok, err := s.manager.AdmitAndStore(s.ctx, types.PartialRecord{})
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("date only", func() {
		ok, err := s.manager.AdmitAndStore(s.ctx, types.PartialRecord{SampleDate: day(2023, 11, 3)})
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Equal(0, s.store.Len())
}

func (s *AdmissionSuite) TestSingleIndicatorIsStoredWithNulls() {
	ok, err := s.manager.AdmitAndStore(s.ctx, types.PartialRecord{RBC: types.Float(4.8)})
	s.Require().NoError(err)
	s.True(ok)

	rows, err := s.store.FetchAllIndicators(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Nil(rows[0].Hemoglobin)
	s.Nil(rows[0].WBC)
	s.Nil(rows[0].Platelets)
	s.Require().NotNil(rows[0].RBC)
	s.Equal(4.8, *rows[0].RBC)
}

func (s *AdmissionSuite) TestMissingDateDefaultsToStoreCurrentDate() {
	ok, err := s.manager.AdmitAndStore(s.ctx, types.PartialRecord{Hemoglobin: types.Float(130)})
	s.Require().NoError(err)
	s.True(ok)

	latest, err := s.store.LatestDate(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(latest)
	s.Equal("2024-05-20", latest.Format(types.DateLayout))
}

func (s *AdmissionSuite) TestRoundTrip() {
	rec := types.PartialRecord{
		Hemoglobin: types.Float(135.5),
		WBC:        types.Float(6.2),
		SampleDate: day(2023, 11, 3),
	}
	ok, err := s.manager.AdmitAndStore(s.ctx, rec)
	s.Require().NoError(err)
	s.True(ok)

	rows, err := s.store.FetchAllIndicators(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(135.5, *rows[0].Hemoglobin)
	s.Equal(6.2, *rows[0].WBC)
	s.Nil(rows[0].Platelets)
	s.Nil(rows[0].RBC)
	s.Equal("2023-11-03", rows[0].Date.Format(types.DateLayout))
}

func (s *AdmissionSuite) TestRowsOrderedByDate() {
	for _, d := range []*time.Time{day(2024, 3, 1), day(2023, 1, 15), day(2023, 9, 9)} {
		_, err := s.manager.AdmitAndStore(s.ctx, types.PartialRecord{Hemoglobin: types.Float(120), SampleDate: d})
		s.Require().NoError(err)
	}

	rows, err := s.store.FetchAllIndicators(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal("2023-01-15", rows[0].Date.Format(types.DateLayout))
	s.Equal("2023-09-09", rows[1].Date.Format(types.DateLayout))
	s.Equal("2024-03-01", rows[2].Date.Format(types.DateLayout))

	latest, err := s.store.LatestDate(s.ctx)
	s.Require().NoError(err)
	s.Equal(*day(2024, 3, 1), *latest)
}

func (s *AdmissionSuite) TestSchemaV1IgnoresNewIndicators() {
	store := NewMemoryStore(SchemaV1, func() time.Time { return s.today })
	manager := NewDatabaseManager(store, nil)

	ok, err := manager.AdmitAndStore(s.ctx, types.PartialRecord{WBC: types.Float(6.2), RBC: types.Float(4.1)})
	s.Require().NoError(err)
	s.False(ok, "v1 schema only stores hemoglobin")

	ok, err = manager.AdmitAndStore(s.ctx, types.PartialRecord{Hemoglobin: types.Float(140), WBC: types.Float(6.2)})
	s.Require().NoError(err)
	s.True(ok)

	rows, err := store.FetchAllIndicators(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(140.0, *rows[0].Hemoglobin)
	s.Nil(rows[0].WBC)
}

func (s *AdmissionSuite) TestInvalidRecordIsRejected() {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		ok, err := s.manager.AdmitAndStore(s.ctx, types.PartialRecord{Hemoglobin: types.Float(v)})
		s.Require().NoError(err)
		s.False(ok)
	}
	s.Equal(0, s.store.Len())
}

type failingStore struct {
	*MemoryStore
	err error
}

func (f *failingStore) Append(ctx context.Context, r types.PartialRecord) (types.StoredRecord, error) {
	return types.StoredRecord{}, f.err
}

func (s *AdmissionSuite) TestStorageFailureIsSurfaced() {
	driverErr := errors.New("connection refused")
	manager := NewDatabaseManager(&failingStore{MemoryStore: NewMemoryStore(SchemaV2, nil), err: driverErr}, nil)

	ok, err := manager.AdmitAndStore(s.ctx, types.PartialRecord{Hemoglobin: types.Float(120)})

	s.False(ok)
	s.Require().Error(err)
	s.ErrorIs(err, ErrStorage)
	s.ErrorIs(err, driverErr)
	var storageErr *StorageError
	s.Require().ErrorAs(err, &storageErr)
}

func (s *AdmissionSuite) TestCancelledContextIsStorageError() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	ok, err := s.manager.AdmitAndStore(ctx, types.PartialRecord{Hemoglobin: types.Float(120)})

	s.False(ok)
	s.ErrorIs(err, ErrStorage)
	s.ErrorIs(err, context.Canceled)
}
