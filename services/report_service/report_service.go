package report_service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/models/booking_models"
	"github.com/joy095/fixitnow/models/review_models"
	"github.com/joy095/fixitnow/models/shared_models"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/joy095/fixitnow/utils/apperrors"
)

const (
	RevenueWindowDays = 30
	TopN              = 5
)

// ReportService builds the admin dashboards. It only reads.
type ReportService struct {
	bookings booking_models.Store
	reviews  review_models.Store
	now      func() time.Time
}

func NewReportService(bookings booking_models.Store, reviews review_models.Store, now func() time.Time) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{bookings: bookings, reviews: reviews, now: now}
}

type DailyRevenue struct {
	Date     string              `json:"date"`
	Revenue  shared_models.Money `json:"revenue"`
	Bookings int                 `json:"bookings"`
}

type StatusCount struct {
	Status booking_models.Status `json:"status"`
	Count  int                   `json:"count"`
}

type ServiceRank struct {
	ServiceID    uuid.UUID           `json:"serviceId"`
	ServiceTitle string              `json:"serviceTitle"`
	Bookings     int                 `json:"bookings"`
	Revenue      shared_models.Money `json:"revenue"`
}

type ProviderRank struct {
	ProviderID        uuid.UUID           `json:"providerId"`
	CompletedBookings int                 `json:"completedBookings"`
	Revenue           shared_models.Money `json:"revenue"`
	AverageRating     float64             `json:"averageRating"`
	TotalReviews      int                 `json:"totalReviews"`
}

type CustomerRank struct {
	CustomerID uuid.UUID           `json:"customerId"`
	Bookings   int                 `json:"bookings"`
	TotalSpent shared_models.Money `json:"totalSpent"`
}

func requireAdmin(p user_models.Principal) error {
	if !p.Is(user_models.RoleAdmin) {
		return apperrors.Forbidden("admin access required")
	}
	return nil
}

func (s *ReportService) all(ctx context.Context, f booking_models.Filter) ([]booking_models.Booking, error) {
	out, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

// Revenue sums COMPLETED bookings per local day, starting 30 days back and
// running through today or the latest completed booking date, whichever is
// later. Jobs can be completed ahead of their scheduled date. Days without
// revenue are included so the series has no gaps.
func (s *ReportService) Revenue(ctx context.Context, p user_models.Principal) ([]DailyRevenue, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	now := s.now().In(shared_models.Location)
	today := localDay(now)
	from := today.AddDate(0, 0, -(RevenueWindowDays - 1))

	completed, err := s.all(ctx, booking_models.Filter{
		Statuses: []booking_models.Status{booking_models.StatusCompleted},
		DateFrom: &from,
	})
	if err != nil {
		return nil, err
	}

	last := today
	for _, b := range completed {
		if d := localDay(b.BookingDate); d.After(last) {
			last = d
		}
	}

	var days []DailyRevenue
	index := make(map[string]int, RevenueWindowDays)
	for d := from; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		index[key] = len(days)
		days = append(days, DailyRevenue{Date: key})
	}
	for _, b := range completed {
		i, ok := index[localDay(b.BookingDate).Format("2006-01-02")]
		if !ok {
			continue
		}
		days[i].Revenue += b.TotalAmount
		days[i].Bookings++
	}
	return days, nil
}

func localDay(t time.Time) time.Time {
	t = t.In(shared_models.Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, shared_models.Location)
}

func (s *ReportService) StatusDistribution(ctx context.Context, p user_models.Principal) ([]StatusCount, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	bookings, err := s.all(ctx, booking_models.Filter{})
	if err != nil {
		return nil, err
	}
	counts := make(map[booking_models.Status]int)
	for _, b := range bookings {
		counts[b.Status]++
	}
	out := make([]StatusCount, len(booking_models.AllStatuses))
	for i, st := range booking_models.AllStatuses {
		out[i] = StatusCount{Status: st, Count: counts[st]}
	}
	return out, nil
}

// TopServices ranks services by number of bookings in any status.
func (s *ReportService) TopServices(ctx context.Context, p user_models.Principal) ([]ServiceRank, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	bookings, err := s.all(ctx, booking_models.Filter{})
	if err != nil {
		return nil, err
	}
	byService := make(map[uuid.UUID]*ServiceRank)
	for _, b := range bookings {
		r, ok := byService[b.ServiceID]
		if !ok {
			r = &ServiceRank{ServiceID: b.ServiceID, ServiceTitle: b.ServiceTitle}
			byService[b.ServiceID] = r
		}
		r.Bookings++
		if b.Status == booking_models.StatusCompleted {
			r.Revenue += b.TotalAmount
		}
	}
	out := make([]ServiceRank, 0, len(byService))
	for _, r := range byService {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bookings != out[j].Bookings {
			return out[i].Bookings > out[j].Bookings
		}
		return out[i].ServiceTitle < out[j].ServiceTitle
	})
	return head(out), nil
}

// TopProviders ranks providers by completed bookings and attaches their rating.
func (s *ReportService) TopProviders(ctx context.Context, p user_models.Principal) ([]ProviderRank, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	completed, err := s.all(ctx, booking_models.Filter{Statuses: []booking_models.Status{booking_models.StatusCompleted}})
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.List(ctx, review_models.Filter{})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	byProvider := make(map[uuid.UUID]*ProviderRank)
	for _, b := range completed {
		r, ok := byProvider[b.ProviderID]
		if !ok {
			r = &ProviderRank{ProviderID: b.ProviderID}
			byProvider[b.ProviderID] = r
		}
		r.CompletedBookings++
		r.Revenue += b.TotalAmount
	}
	reviewsBy := make(map[uuid.UUID][]review_models.Review)
	for _, rv := range reviews {
		reviewsBy[rv.ProviderID] = append(reviewsBy[rv.ProviderID], rv)
	}

	out := make([]ProviderRank, 0, len(byProvider))
	for id, r := range byProvider {
		summary := review_models.Summarize(id, reviewsBy[id])
		r.AverageRating = summary.AverageRating
		r.TotalReviews = summary.TotalReviews
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompletedBookings != out[j].CompletedBookings {
			return out[i].CompletedBookings > out[j].CompletedBookings
		}
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].ProviderID.String() < out[j].ProviderID.String()
	})
	return head(out), nil
}

// TopCustomers ranks customers by number of bookings in any status.
func (s *ReportService) TopCustomers(ctx context.Context, p user_models.Principal) ([]CustomerRank, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	bookings, err := s.all(ctx, booking_models.Filter{})
	if err != nil {
		return nil, err
	}
	byCustomer := make(map[uuid.UUID]*CustomerRank)
	for _, b := range bookings {
		r, ok := byCustomer[b.CustomerID]
		if !ok {
			r = &CustomerRank{CustomerID: b.CustomerID}
			byCustomer[b.CustomerID] = r
		}
		r.Bookings++
		if b.Status == booking_models.StatusCompleted {
			r.TotalSpent += b.TotalAmount
		}
	}
	out := make([]CustomerRank, 0, len(byCustomer))
	for _, r := range byCustomer {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bookings != out[j].Bookings {
			return out[i].Bookings > out[j].Bookings
		}
		return out[i].CustomerID.String() < out[j].CustomerID.String()
	})
	return head(out), nil
}

func head[T any](in []T) []T {
	if len(in) > TopN {
		return in[:TopN]
	}
	return in
}
