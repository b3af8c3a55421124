package catalog

// AttributeWhitelist maps (main category, sub category) to the attribute
// keys a product of that kind may carry.
type AttributeWhitelist map[string]map[string][]string

// DefaultAttributeWhitelist returns the attribute schema for the reference
// deployment's two top-level categories.
func DefaultAttributeWhitelist() AttributeWhitelist {
	return AttributeWhitelist{
		"Vestuário": {
			"Sapato":   {"marca", "tamanho", "cor", "preco_promocional", "rating"},
			"Camisa":   {"marca", "tamanho", "cor", "estilo", "rating"},
			"Camiseta": {"marca", "tamanho", "cor", "estampa", "rating"},
			"Calça":    {"marca", "tamanho", "cor", "estilo", "rating"},
		},
		"Tecnologia": {
			"Computador": {"marca", "referencia", "armazenamento", "ram", "tipo_memoria", "rating"},
			"Laptop":     {"marca", "referencia", "armazenamento", "ram", "tipo_memoria", "rating"},
			"Telefone":   {"marca", "referencia", "armazenamento", "ram", "rating"},
		},
	}
}

// Lookup returns the allowed keys for the category pair, nil when no schema
// is defined. Matching is case-sensitive.
func (w AttributeWhitelist) Lookup(mainCategory, subCategory string) []string {
	if mainCategory == "" || subCategory == "" {
		return nil
	}
	subs, ok := w[mainCategory]
	if !ok {
		return nil
	}
	return subs[subCategory]
}

// SanitizeAttributes filters a free-form attribute map against the whitelist
// for the product's category pair. With no schema defined for the pair, only
// primitive values survive so arbitrary structured data cannot be injected.
// The image_urls key always passes through verbatim when non-empty.
// Returns nil when the input or the filtered result is empty.
func SanitizeAttributes(whitelist AttributeWhitelist, mainCategory, subCategory *string, attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return nil
	}

	imageURLs, hasImageURLs := attrs["image_urls"]

	var allowed []string
	if mainCategory != nil && subCategory != nil {
		allowed = whitelist.Lookup(*mainCategory, *subCategory)
	}

	filtered := make(map[string]any)
	if len(allowed) == 0 {
		for key, value := range attrs {
			if key == "image_urls" {
				continue
			}
			if isPrimitive(value) {
				filtered[key] = value
			}
		}
	} else {
		for _, key := range allowed {
			if value, ok := attrs[key]; ok {
				filtered[key] = value
			}
		}
	}

	if hasImageURLs && !isEmptyValue(imageURLs) {
		filtered["image_urls"] = imageURLs
	}

	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

func isPrimitive(value any) bool {
	switch value.(type) {
	case string, int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}
