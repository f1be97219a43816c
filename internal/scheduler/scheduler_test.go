package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/report"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository/memory"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/service"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*service.AnalyticsService, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := service.NewAnalyticsService(store.Repositories(), nil, service.Options{
		Now: func() time.Time { return time.Date(2025, 11, 4, 0, 10, 0, 0, time.UTC) },
		IDs: domain.NewSequenceGenerator("scheduler-test"),
	})
	_, err := svc.RecordSale(context.Background(), domain.SaleInput{
		Date: "2025-11-03", Time: "09:00:00", ItemName: "Latte", Quantity: 2, UnitPrice: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	return svc, store
}

func TestRollupYesterdayArchivesAndExports(t *testing.T) {
	svc, store := newService(t)
	objects := storage.NewMemoryStorage()
	s := NewScheduler("", nil, svc, report.NewExporter(objects))

	s.rollupYesterday()

	list, err := store.ListDailySummaries(context.Background(), repository.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2025-11-03", list[0].Date)
	assert.True(t, list[0].Revenue.Equal(decimal.NewFromInt(10000)))

	summaryKey, salesKey := report.DayKeys("2025-11-03")
	_, ok := objects.Object(summaryKey)
	assert.True(t, ok)
	_, ok = objects.Object(salesKey)
	assert.True(t, ok)
}

func TestRunRollupWithoutExporter(t *testing.T) {
	svc, _ := newService(t)
	s := NewScheduler("", nil, svc, nil)

	require.NoError(t, s.RunRollup(context.Background(), "2025-11-02"))
	assert.ErrorIs(t, s.RunRollup(context.Background(), "11/02/2025"), domain.ErrInvalidDate)
}

func TestStartRejectsBadSpec(t *testing.T) {
	svc, _ := newService(t)
	s := NewScheduler("every night", nil, svc, nil)
	assert.Error(t, s.Start())

	s = NewScheduler(DefaultRollupSpec, time.UTC, svc, nil)
	require.NoError(t, s.Start())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
