package domain

import "time"

// AssetDowntime records an interval during which an asset was out of service.
// A nil EndedAt means the asset is still down.
type AssetDowntime struct {
	ID        string
	AssetID   string
	StartedAt time.Time
	EndedAt   *time.Time
	Reason    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationHours returns the downtime length in hours, using asOf as the end
// of still-open intervals. Never negative.
func (d AssetDowntime) DurationHours(asOf time.Time) float64 {
	end := asOf
	if d.EndedAt != nil {
		end = *d.EndedAt
	}
	hours := end.Sub(d.StartedAt).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}
