// Package feed talks to the external storefront platform's product API. The
// feed is treated as an opaque paginated source of raw records; all
// normalization happens in the catalogsync mapper.
package feed

// RawProduct is a product record exactly as the feed serves it. Name is a
// locale-keyed map; Published distinguishes "explicitly unpublished" (false)
// from "not stated" (nil).
type RawProduct struct {
	ID          int64             `json:"id"`
	Name        map[string]string `json:"name"`
	Description string            `json:"description"`
	Published   *bool             `json:"published"`
	Images      []Image           `json:"images"`
	Variants    []Variant         `json:"variants"`
}

type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

type Variant struct {
	ID    int64   `json:"id"`
	Price float64 `json:"price"`
}
