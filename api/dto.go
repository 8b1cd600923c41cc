/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  Defines the JSON structures returned by the lookup API. Passenger records
  and the year summary are served as-is; tiers get a DTO because the ladder
  keeps its transitions unexported.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: List wrappers

SEE ALSO:
  - handlers.go: Uses these types
  - tier/ladder.go: Source of TierDTO fields
*/
package api

import (
	"github.com/warp/cancellation-rewards/tier"
	"github.com/warp/cancellation-rewards/tracker"
)

// TierDTO describes one rung of the ladder.
type TierDTO struct {
	Name                    string `json:"name"`
	DisplayName             string `json:"display_name"`
	EntryThreshold          int    `json:"entry_threshold"`
	MilesPerCancelledFlight int    `json:"miles_per_cancelled_flight"`
	Base                    bool   `json:"base"`
	Terminal                bool   `json:"terminal"`
	Next                    string `json:"next,omitempty"`
	Promotion               string `json:"promotion,omitempty"`
}

// PassengerListResponse wraps the passenger list.
type PassengerListResponse struct {
	Passengers []tracker.Record `json:"passengers"`
	Count      int              `json:"count"`
	YearEnded  bool             `json:"year_ended"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toTierDTO(v tier.Variant) TierDTO {
	dto := TierDTO{
		Name:                    v.String(),
		DisplayName:             v.DisplayName(),
		EntryThreshold:          v.EntryThreshold(),
		MilesPerCancelledFlight: v.MilesPerCancelledFlight(),
		Base:                    v.IsBase(),
		Terminal:                v.IsTerminal(),
	}
	if next, ok := v.Next(); ok {
		dto.Next = next.String()
	}
	if promo, ok := v.Promotion(); ok {
		dto.Promotion = promo.String()
	}
	return dto
}
