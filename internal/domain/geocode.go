package domain

import (
	"context"
	"log/slog"
)

// LocateUniversities fills in coordinates for records that have none by
// forward geocoding the university name. Records that already have a
// position, or that the geocoder cannot resolve, are returned unchanged.
// A nil geocoder returns the input as-is.
func LocateUniversities(ctx context.Context, records []University, geocoder Geocoder, logger *slog.Logger) []University {
	if geocoder == nil {
		return records
	}

	out := make([]University, len(records))
	copy(out, records)

	for i := range out {
		if out[i].HasCoordinates() {
			continue
		}
		region := "US"
		if out[i].IsCanadian {
			region = "CA"
		}
		result, err := geocoder.ForwardGeocode(ctx, out[i].Name, region)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"university", out[i].Name,
				"error", err,
			)
			continue
		}
		if result.Lat == 0 && result.Lon == 0 {
			logger.Warn("forward geocoding returned no position", "university", out[i].Name)
			continue
		}
		out[i].Lat = result.Lat
		out[i].Lng = result.Lon
	}
	return out
}

// DescribeCampus returns a human-readable place line for the university's
// coordinates, e.g. "Cambridge, Massachusetts, United States". It returns an
// empty string when geocoding is disabled, fails, or finds nothing.
func DescribeCampus(ctx context.Context, u University, geocoder Geocoder, logger *slog.Logger) string {
	if geocoder == nil || !u.HasCoordinates() {
		return ""
	}

	result, err := geocoder.ReverseGeocode(ctx, u.Lat, u.Lng)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"university", u.Name,
			"lat", u.Lat,
			"lng", u.Lng,
			"error", err,
		)
		return ""
	}
	return result.FormattedAddress
}
