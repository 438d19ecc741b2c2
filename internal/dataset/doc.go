// Package dataset loads the Unique CLEVR evaluation inputs: predictions,
// questions, per-image scene descriptions, rendered mask images and
// relevance heatmaps.
//
// Missing files are reported with ErrMissingFile so callers can treat them as
// absent data instead of failures.
package dataset
