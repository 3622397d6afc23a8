// Package domain models the USGS earthquake summary feed and the rules that
// turn it into a map view.
//
// # Data Source
//
// Events come from the USGS "summary" GeoJSON feeds, one per time window:
//
//	1 day:   https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson
//	7 days:  https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson
//	30 days: https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_month.geojson
//
// Each feature carries properties.mag (may be null), properties.place (may be
// null), properties.time (epoch milliseconds) and geometry.coordinates as
// [longitude, latitude, depth]. A null magnitude is treated as 0.
//
// Country outlines come from a static world GeoJSON polygon collection and
// carry no semantics beyond their geometry.
//
// # Magnitude Buckets
//
// Markers are colored by magnitude, checked from the top down with inclusive
// lower bounds:
//
//	≥ 6.0  critical  stroke #ff0000 fill #ff3333
//	≥ 4.0  strong    stroke #ff9900 fill #ffcc66
//	≥ 2.0  medium    stroke #ffff00 fill #ffff99
//	else   light     stroke #0073e6 fill #66b3ff
//
// Marker radius is 1000 + 1500·2^mag meters, so every whole magnitude step
// roughly doubles the circle.
//
// # Display Conventions
//
// User-facing labels are Italian, matching the dashboard's audience. Times are
// shown as a two-digit "15:04" time of day. Table place names are cut to 15
// runes followed by "..." when longer; a missing place renders as "?".
package domain
