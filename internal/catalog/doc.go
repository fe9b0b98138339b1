// Package catalog is the shared product catalog: brands, shades, and
// barcode-bearing SKUs, plus the two lookups the capture resolver depends on
// (exact GTIN match and ranked fuzzy shade search).
package catalog
