package metadata

// schemaParsers maps a JSON-LD @type to the function that extracts its
// relevant fields into a flat metadata map. Unlisted types fall back to
// flattenLDFields in metadata.go.
var schemaParsers = map[string]func(map[string]interface{}) map[string]interface{}{
	"Product":       parseProduct,
	"Article":       parseArticle,
	"NewsArticle":   parseArticle,
	"VideoObject":   parseVideo,
	"BreadcrumbList": parseBreadcrumb,
	"FAQPage":       parseFAQ,
	"Event":         parseEvent,
	"LocalBusiness": parseLocalBusiness,
	"Organization":  parseLocalBusiness,
}

func parseProduct(t map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	if v, ok := t["name"].(string); ok {
		out["title"] = v
	}
	if v, ok := t["sku"].(string); ok {
		out["sku"] = v
	}
	if brand, ok := t["brand"].(map[string]interface{}); ok {
		if name, ok := brand["name"].(string); ok {
			out["brand"] = name
		}
	} else if v, ok := t["brand"].(string); ok {
		out["brand"] = v
	}
	if offers, ok := t["offers"].(map[string]interface{}); ok {
		if p, ok := toFloat(offers["price"]); ok {
			out["price"] = p
		}
		if c, ok := offers["priceCurrency"].(string); ok {
			out["currency"] = c
		}
		if a, ok := offers["availability"].(string); ok {
			out["availability"] = a
		}
	} else if offers, ok := t["offers"].([]interface{}); ok && len(offers) > 0 {
		if first, ok := offers[0].(map[string]interface{}); ok {
			if p, ok := toFloat(first["price"]); ok {
				out["price"] = p
			}
			if c, ok := first["priceCurrency"].(string); ok {
				out["currency"] = c
			}
		}
	}
	if agg, ok := t["aggregateRating"].(map[string]interface{}); ok {
		if r, ok := toFloat(agg["ratingValue"]); ok {
			out["rating"] = r
		}
		if n, ok := toInt(agg["reviewCount"]); ok {
			out["review_count"] = n
		}
	}
	if v, ok := t["image"]; ok {
		out["image"] = extractImageURLs(v)
	}
	return out
}

func parseArticle(t map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	if v, ok := t["headline"].(string); ok {
		out["title"] = v
	}
	if v, ok := t["datePublished"].(string); ok {
		out["date_published"] = v
	}
	if v, ok := t["dateModified"].(string); ok {
		out["date_modified"] = v
	}
	if author, ok := t["author"].(map[string]interface{}); ok {
		if name, ok := author["name"].(string); ok {
			out["author"] = name
		}
	} else if v, ok := t["author"].(string); ok {
		out["author"] = v
	}
	if pub, ok := t["publisher"].(map[string]interface{}); ok {
		if name, ok := pub["name"].(string); ok {
			out["publisher"] = name
		}
	}
	if v, ok := t["image"]; ok {
		out["image"] = extractImageURLs(v)
	}
	return out
}

func parseVideo(t map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	if v, ok := t["name"].(string); ok {
		out["title"] = v
	}
	if v, ok := t["duration"].(string); ok {
		out["duration"] = v
	}
	if v, ok := t["thumbnailUrl"]; ok {
		out["thumbnail"] = extractImageURLs(v)
	}
	if v, ok := t["contentUrl"].(string); ok {
		out["content_url"] = v
	}
	return out
}

func parseBreadcrumb(t map[string]interface{}) map[string]interface{} {
	items, ok := t["itemListElement"].([]interface{})
	if !ok {
		return nil
	}
	var trail []string
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		if v, ok := m["name"].(string); ok {
			trail = append(trail, v)
		}
	}
	if len(trail) == 0 {
		return nil
	}
	return map[string]interface{}{"breadcrumb": trail}
}

func parseFAQ(t map[string]interface{}) map[string]interface{} {
	items, ok := t["mainEntity"].([]interface{})
	if !ok {
		return nil
	}
	var faqs []map[string]string
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		q, _ := m["name"].(string)
		a := ""
		if ans, ok := m["acceptedAnswer"].(map[string]interface{}); ok {
			a, _ = ans["text"].(string)
		}
		if q != "" {
			faqs = append(faqs, map[string]string{"question": q, "answer": a})
		}
	}
	if len(faqs) == 0 {
		return nil
	}
	return map[string]interface{}{"faq": faqs}
}

func parseEvent(t map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	if v, ok := t["name"].(string); ok {
		out["title"] = v
	}
	if v, ok := t["startDate"].(string); ok {
		out["start_date"] = v
	}
	if v, ok := t["endDate"].(string); ok {
		out["end_date"] = v
	}
	if loc, ok := t["location"].(map[string]interface{}); ok {
		if name, ok := loc["name"].(string); ok {
			out["location"] = name
		}
	}
	return out
}

func parseLocalBusiness(t map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	if v, ok := t["name"].(string); ok {
		out["title"] = v
	}
	if v, ok := t["telephone"].(string); ok {
		out["phone"] = v
	}
	if addr, ok := t["address"].(map[string]interface{}); ok {
		if v, ok := addr["streetAddress"].(string); ok {
			out["address"] = v
		}
	} else if v, ok := t["address"].(string); ok {
		out["address"] = v
	}
	return out
}

// imageURLSchemes is the whitelist of URL schemes accepted for an
// extracted image reference; everything else (data:, javascript:) is
// dropped rather than surfaced to an agent as a clickable reference.
var imageURLSchemes = map[string]bool{"http": true, "https": true}

func extractImageURLs(v interface{}) []string {
	var urls []string
	switch t := v.(type) {
	case string:
		if isAllowedImageURL(t) {
			urls = append(urls, t)
		}
	case []interface{}:
		for _, item := range t {
			urls = append(urls, extractImageURLs(item)...)
		}
	case map[string]interface{}:
		if u, ok := t["url"].(string); ok {
			urls = append(urls, extractImageURLs(u)...)
		}
	}
	return urls
}

func isAllowedImageURL(s string) bool {
	for scheme := range imageURLSchemes {
		if len(s) > len(scheme)+3 && s[:len(scheme)+3] == scheme+"://" {
			return true
		}
	}
	return false
}
