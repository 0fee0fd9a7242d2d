package booking

import "github.com/shopspring/decimal"

// Stats summarises a set of bookings for a dashboard.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Accepted   int `json:"accepted"`
	Rejected   int `json:"rejected"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`

	// TotalRevenue counts budgets of bookings being or already delivered.
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	// TotalBudget counts every budget regardless of status.
	TotalBudget decimal.Decimal `json:"totalBudget"`
}

// Aggregate is a pure reduction over bookings; input order does not matter.
func Aggregate(bookings []Booking) Stats {
	s := Stats{TotalRevenue: decimal.Zero, TotalBudget: decimal.Zero}
	for _, b := range bookings {
		s.Total++
		s.TotalBudget = s.TotalBudget.Add(b.Budget)
		switch b.Status {
		case StatusPending:
			s.Pending++
		case StatusAccepted:
			s.Accepted++
		case StatusRejected:
			s.Rejected++
		case StatusInProgress:
			s.InProgress++
			s.TotalRevenue = s.TotalRevenue.Add(b.Budget)
		case StatusCompleted:
			s.Completed++
			s.TotalRevenue = s.TotalRevenue.Add(b.Budget)
		}
	}
	return s
}
