// Package domain models the field-reporting alert data and the pure
// computations over it.
//
// # Alerts
//
// An AlertItem is either a user hazard report (ID prefix "ua_") or a
// system-generated forecast notice (prefix "sa_"). The two populations live
// in independent ID namespaces and independent lists, both ordered newest
// first. Titles and subtitles are Text values: either literal strings or
// references to translation keys resolved at render time, so stored alerts
// stay language-neutral.
//
// # Ponding analysis
//
// Risk classification from a rain-rate sample (mm/h):
//
//	rain >= 50 → red
//	rain >= 30 → orange
//	otherwise  → yellow
//
// with a normalized risk score ponding_index = clamp((rain-10)/60, 0, 1).
//
// # Geo sampling
//
// RandomPointInRadius draws uniformly over a disk using the square-root
// radius transform (r = R·√u, θ = 2πv) with a cos(lat) correction for
// longitude degrees. Mean sample distance from the center is (2/3)·R.
package domain
