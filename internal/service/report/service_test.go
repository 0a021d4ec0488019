package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/repository"
)

type window struct{ from, to time.Time }

type fakeReportRepo struct {
	depositWindows []window
	bookingWindows []window
	outWindows     []window
	filters        []repository.ReportFilter
}

func (f *fakeReportRepo) Bookings(_ context.Context, fl repository.ReportFilter) ([]domain.Booking, error) {
	f.filters = append(f.filters, fl)
	return []domain.Booking{{PatientName: "Sara Mohammadi"}}, nil
}

func (f *fakeReportRepo) CardTotals(_ context.Context, fl repository.ReportFilter) ([]repository.CardTotal, error) {
	return []repository.CardTotal{{MaskedNumber: "6037-99**-****-1234", Total: 100_000_000}}, nil
}

func (f *fakeReportRepo) ConsultantTotals(_ context.Context, fl repository.ReportFilter) ([]repository.ConsultantTotal, error) {
	return []repository.ConsultantTotal{{Name: "Ms. Karimi", Total: 60_000_000}}, nil
}

func (f *fakeReportRepo) DepositsBetween(_ context.Context, from, to time.Time) (domain.Money, error) {
	f.depositWindows = append(f.depositWindows, window{from, to})
	return 150_000_000, nil
}

func (f *fakeReportRepo) OutstandingBetween(_ context.Context, from, to time.Time) (domain.Money, int, error) {
	f.outWindows = append(f.outWindows, window{from, to})
	return 40_000_000, 3, nil
}

func (f *fakeReportRepo) BookingsBetween(_ context.Context, from, to time.Time) (int, error) {
	f.bookingWindows = append(f.bookingWindows, window{from, to})
	return 7, nil
}

func TestDashboardWindows(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewService(repo)

	// 2024-03-20 is a Wednesday; the Persian week around it runs
	// Saturday 2024-03-16 through Friday 2024-03-22.
	svc.now = func() time.Time {
		return time.Date(2024, 3, 20, 15, 30, 0, 0, time.UTC)
	}

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	today := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	weekStart := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	weekEnd := time.Date(2024, 3, 22, 0, 0, 0, 0, time.UTC)

	require.Len(t, repo.bookingWindows, 2)
	assert.Equal(t, window{today, today}, repo.bookingWindows[0])
	assert.Equal(t, window{weekStart, weekEnd}, repo.bookingWindows[1])

	// Deposit sums key on payment time, exclusive upper bound.
	require.Len(t, repo.depositWindows, 2)
	assert.Equal(t, window{today, today.AddDate(0, 0, 1)}, repo.depositWindows[0])
	assert.Equal(t, window{weekStart, weekEnd.AddDate(0, 0, 1)}, repo.depositWindows[1])

	// 2024-03-20 is Nowruz, 1403/01/01.
	assert.Equal(t, "1403/01/01", d.Today.JalaliFrom)
	assert.Equal(t, "1402/12/26", d.Week.JalaliFrom)
	assert.Equal(t, "1403/01/03", d.Week.JalaliTo)

	assert.Equal(t, domain.Money(150_000_000), d.Today.Deposits)
	assert.Equal(t, 7, d.Week.Bookings)
	assert.Equal(t, domain.Money(40_000_000), d.Week.Outstanding)
	assert.Equal(t, 3, d.Week.UnsettledCnt)
}

func TestReportAssembly(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewService(repo)

	status := domain.SettlementPartial
	f := repository.ReportFilter{Status: &status}

	rep, err := svc.Report(context.Background(), f)
	require.NoError(t, err)

	require.Len(t, rep.Bookings, 1)
	require.Len(t, rep.CardTotals, 1)
	require.Len(t, rep.ConsultantTotals, 1)
	assert.Equal(t, domain.Money(100_000_000), rep.CardTotals[0].Total)

	require.Len(t, repo.filters, 1)
	require.NotNil(t, repo.filters[0].Status)
	assert.Equal(t, domain.SettlementPartial, *repo.filters[0].Status)
}
