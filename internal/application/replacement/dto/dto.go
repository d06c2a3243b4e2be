package dto

import (
	"time"

	"harvestcycle/internal/domain/cycle"
	"harvestcycle/internal/domain/replacement"
	"harvestcycle/internal/shared/biztime"
)

type ReplacementRequestDTO struct {
	ID               string    `json:"id"`
	SubscriberID     string    `json:"subscriber_id"`
	WeekStartDate    string    `json:"week_start_date"`
	Type             string    `json:"type"`
	Reason           string    `json:"reason,omitempty"`
	Status           string    `json:"status"`
	AppliedToOrderID *string   `json:"applied_to_order_id"`
	AdminNotes       string    `json:"admin_notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AdminReplacementRequestDTO adds the subscriber's usage for the current month.
type AdminReplacementRequestDTO struct {
	ReplacementRequestDTO
	CurrentMonthCount int64 `json:"current_month_count"`
}

type QuotaUsageDTO struct {
	Used       int64  `json:"used"`
	Cap        int    `json:"cap"`
	Remaining  int64  `json:"remaining"`
	MonthStart string `json:"month_start"`
}

type CycleDTO struct {
	Now               time.Time `json:"now"`
	Timezone          string    `json:"timezone"`
	OrderCutoff       time.Time `json:"order_cutoff"`
	HarvestDay        string    `json:"harvest_day"`
	DeliveryDay       string    `json:"delivery_day"`
	HarvestDate       *string   `json:"harvest_date,omitempty"`
	DeliveryDate      *string   `json:"delivery_date,omitempty"`
	RequestWindowOpen bool      `json:"request_window_open"`
}

// ToReplacementRequestDTO renders week start as a calendar date in loc.
func ToReplacementRequestDTO(r *replacement.ReplacementRequest, loc *time.Location) ReplacementRequestDTO {
	return ReplacementRequestDTO{
		ID:               r.ID(),
		SubscriberID:     r.SubscriberID(),
		WeekStartDate:    biztime.FormatDate(r.WeekStart(), loc),
		Type:             r.Type().String(),
		Reason:           r.Reason(),
		Status:           r.Status().String(),
		AppliedToOrderID: r.AppliedToOrderID(),
		AdminNotes:       r.AdminNotes(),
		CreatedAt:        r.CreatedAt().UTC(),
		UpdatedAt:        r.UpdatedAt().UTC(),
	}
}

func ToQuotaUsageDTO(u replacement.QuotaUsage, loc *time.Location) QuotaUsageDTO {
	return QuotaUsageDTO{
		Used:       u.Used,
		Cap:        u.Cap,
		Remaining:  u.Remaining(),
		MonthStart: biztime.FormatDate(u.MonthStart, loc),
	}
}

func ToCycleDTO(c cycle.Cycle, loc *time.Location) CycleDTO {
	out := CycleDTO{
		Now:               c.Now.UTC(),
		Timezone:          loc.String(),
		OrderCutoff:       c.OrderCutoff.UTC(),
		HarvestDay:        c.HarvestDay,
		DeliveryDay:       c.DeliveryDay,
		RequestWindowOpen: c.RequestWindowOpen,
	}
	if c.HarvestDate != nil {
		d := biztime.FormatDate(*c.HarvestDate, loc)
		out.HarvestDate = &d
	}
	if c.DeliveryDate != nil {
		d := biztime.FormatDate(*c.DeliveryDate, loc)
		out.DeliveryDate = &d
	}
	return out
}
