package models

// OccupiedSlot is a conflicting interval in display form ("HH:MM"), with a
// next-day flag when the boundary falls past midnight of the business date.
type OccupiedSlot struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	StartNextDay bool   `json:"startNextDay,omitempty"`
	EndNextDay   bool   `json:"endNextDay,omitempty"`
}

// AvailabilityResult answers a (device, date, hour-range) query.
type AvailabilityResult struct {
	Available     bool           `json:"available"`
	OccupiedSlots []OccupiedSlot `json:"occupiedSlots"`
}

// ValidationReport collects all rule violations for a rental request in a
// single round trip. Warnings never block the request. LimitExceeded marks
// reports where a rental cap (not merely malformed input) was hit, with
// AvailableSlots carrying the remaining headroom for the capped type.
type ValidationReport struct {
	IsValid        bool     `json:"isValid"`
	Errors         []string `json:"errors,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
	LimitExceeded  bool     `json:"limitExceeded,omitempty"`
	AvailableSlots *int     `json:"availableSlots,omitempty"`
}

// RentalStatusEntry summarizes a user's active rentals for one device type.
type RentalStatusEntry struct {
	DeviceType   string `json:"deviceType"`
	CurrentCount int    `json:"currentCount"`
	MaxAllowed   *int   `json:"maxAllowed,omitempty"`
}

// RentalStatus is the per-user rental overview.
type RentalStatus struct {
	Rentals     []RentalStatusEntry `json:"rentals"`
	CanRentMore bool                `json:"canRentMore"`
}
