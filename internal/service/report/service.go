// Package report assembles the figures behind the front desk dashboard
// and the reports tab. All sums come straight from SQL aggregation over
// the payment rows.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/persiancal"
	"github.com/nikan-clinic/frontdesk/internal/repository"
)

type reportRepo interface {
	Bookings(ctx context.Context, f repository.ReportFilter) ([]domain.Booking, error)
	CardTotals(ctx context.Context, f repository.ReportFilter) ([]repository.CardTotal, error)
	ConsultantTotals(ctx context.Context, f repository.ReportFilter) ([]repository.ConsultantTotal, error)
	DepositsBetween(ctx context.Context, from, to time.Time) (domain.Money, error)
	OutstandingBetween(ctx context.Context, from, to time.Time) (domain.Money, int, error)
	BookingsBetween(ctx context.Context, from, to time.Time) (int, error)
}

type Service struct {
	reports reportRepo
	now     func() time.Time
}

func NewService(reports reportRepo) *Service {
	return &Service{reports: reports, now: time.Now}
}

// PeriodStats is one dashboard tile: deposits taken, bookings scheduled
// and money still owed in a date window.
type PeriodStats struct {
	Label        string
	JalaliFrom   string
	JalaliTo     string
	Deposits     domain.Money
	Bookings     int
	Outstanding  domain.Money
	UnsettledCnt int
}

// Dashboard holds the stats for today and for the current Persian week,
// which runs Saturday through Friday.
type Dashboard struct {
	Today PeriodStats
	Week  PeriodStats
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now().UTC()
	today := truncateToDay(now)

	todayStats, err := s.periodStats(ctx, "today", today, today)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: %w", err)
	}

	weekStats, err := s.periodStats(ctx, "week", persiancal.StartOfWeek(now), persiancal.EndOfWeek(now))
	if err != nil {
		return nil, fmt.Errorf("Dashboard: %w", err)
	}

	return &Dashboard{Today: *todayStats, Week: *weekStats}, nil
}

// periodStats gathers one window. The deposit sum keys on payment time,
// so the upper bound is exclusive midnight of the following day; booking
// and outstanding figures key on surgery date with inclusive bounds.
func (s *Service) periodStats(ctx context.Context, label string, from, to time.Time) (*PeriodStats, error) {
	deposits, err := s.reports.DepositsBetween(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	bookings, err := s.reports.BookingsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	outstanding, unsettled, err := s.reports.OutstandingBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &PeriodStats{
		Label:        label,
		JalaliFrom:   persiancal.FormatDate(from),
		JalaliTo:     persiancal.FormatDate(to),
		Deposits:     deposits,
		Bookings:     bookings,
		Outstanding:  outstanding,
		UnsettledCnt: unsettled,
	}, nil
}

// Report is the filtered reports-tab payload: matching bookings plus
// per-card and per-consultant deposit breakdowns.
type Report struct {
	Bookings         []domain.Booking
	CardTotals       []repository.CardTotal
	ConsultantTotals []repository.ConsultantTotal
}

func (s *Service) Report(ctx context.Context, f repository.ReportFilter) (*Report, error) {
	bookings, err := s.reports.Bookings(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("Report: %w", err)
	}

	cards, err := s.reports.CardTotals(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("Report: %w", err)
	}

	consultants, err := s.reports.ConsultantTotals(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("Report: %w", err)
	}

	return &Report{
		Bookings:         bookings,
		CardTotals:       cards,
		ConsultantTotals: consultants,
	}, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
