package catalogsync

import (
	"fmt"
	"sort"

	"github.com/whycurls/wholesale-backend/internal/catalog"
	"github.com/whycurls/wholesale-backend/internal/feed"
)

// primaryLocale is the store's selling locale; feed records usually carry it
// but imports from other markets may not.
const primaryLocale = "pt"

// MapProduct normalizes one raw feed record into catalog fields. It fills
// only the fields the feed owns: identity (ID, timestamps, CompareAtPrice)
// stays with the caller so updates preserve locally managed values.
//
// Name resolution: primary locale, else the first available locale (smallest
// key, so the choice is deterministic), else a synthesized fallback.
// Published is opt-out: only an explicit false deactivates the product.
func MapProduct(raw feed.RawProduct) catalog.Product {
	name := raw.Name[primaryLocale]
	if name == "" {
		keys := make([]string, 0, len(raw.Name))
		for k := range raw.Name {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if raw.Name[k] != "" {
				name = raw.Name[k]
				break
			}
		}
	}
	if name == "" {
		name = fmt.Sprintf("Product %d", raw.ID)
	}

	price := 0.0
	if len(raw.Variants) > 0 {
		price = raw.Variants[0].Price
	}

	images := make([]string, 0, len(raw.Images))
	for _, img := range raw.Images {
		images = append(images, img.Src)
	}
	var mainImage *string
	if len(images) > 0 {
		mainImage = &images[0]
	}

	externalID := raw.ID
	return catalog.Product{
		ExternalProductID: &externalID,
		Name:              name,
		DescriptionHTML:   raw.Description,
		Price:             price,
		Images:            images,
		MainImage:         mainImage,
		IsActive:          raw.Published == nil || *raw.Published,
		Source:            catalog.SourceSynced,
	}
}
