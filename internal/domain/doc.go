// Package domain models beach shoreline surveys and the per-beach analytics
// computed from them.
//
// # Data Source
//
// Surveys arrive as a spreadsheet (CSV or XLSX) with one row per measurement.
// Four columns are required: Date, Beach, Shoreline_Position and Tide_Level.
// Any other columns are carried only as cell counts for the data-quality
// percentage. See the sheet adapter for coercion rules.
//
// # Measurement Conventions
//
// Shoreline position and tide level are both in meters against the same local
// datum. Removing the tide offset gives the normalized shoreline:
//
//	normalized = Shoreline_Position - Tide_Level
//
// Positive changes in the normalized series are seaward advancement
// (accretion); negative changes are landward retreat (erosion).
//
// Elapsed time is measured in whole days since the first survey of the beach
// and converted to years with a 365.25-day year, so trend slopes read as meters
// per year.
//
// # Modes
//
// Two analysis modes share one code path:
//
//	single:     one selected beach, >= 2 points, day-first dates, fine policy
//	comparison: every beach, >= 3 points, month-first dates, coarse policy,
//	            plus risk index, threshold projection and seasonal trend
//
// # Classification
//
// Net change (last minus first normalized value) is mapped to a label by one
// of two policies. Both treat exactly -1.0 m as Severe Erosion.
//
//	fine:   Severe | Moderate Erosion | Mild Erosion | Stable | Mild Accretion | Moderate Accretion | Strong Accretion
//	coarse: Severe | Moderate Erosion | Stable Shoreline | Moderate Accretion | Strong Accretion
//
// # Heuristics
//
// The early-warning flag, the risk index and the threshold projection are
// unvalidated heuristics. The risk index is a bounded linear blend:
//
//	risk = min(100, round1(|rate|*30 + (1-R²)*20 + std*10 + negFrac*40))
//
// and the projection assumes the fitted rate holds indefinitely:
//
//	years = |threshold / rate|   (rate < 0 only)
package domain
