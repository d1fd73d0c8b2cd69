// Package dataprocessing implements the medallion transforms over job
// posting records.
//
// The package is organized around the three layers:
//
//   - Bronze: raw-file loading with explicit column types, synthetic-row
//     removal, degenerate-column drops and date casting.
//   - Silver: stateless per-column enrichment (category parsing, seniority
//     mapping, three-stage salary cleaning, role classification and derived
//     features). Silver never drops rows.
//   - Gold: six independent group-by aggregate tables for the dashboard.
//
// Every transform is a pure function over in-memory slices; persistence is
// the caller's concern (see internal/store). All row removals and value
// invalidations report counts; silent data loss is not allowed.
package dataprocessing
