package catalog

import "encoding/json"

// NormalizeVariantMap migrates per-size variant maps to the list form.
// Older rows stored a single string per size; newer rows store a list.
// Values of any other shape collapse to an empty list for that size.
func NormalizeVariantMap(raw map[string]any) map[string][]string {
	if raw == nil {
		return nil
	}
	normalized := make(map[string][]string, len(raw))
	for size, value := range raw {
		switch v := value.(type) {
		case string:
			normalized[size] = []string{v}
		case []string:
			normalized[size] = v
		case []any:
			list := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					list = append(list, s)
				}
			}
			normalized[size] = list
		default:
			normalized[size] = []string{}
		}
	}
	return normalized
}

// ParseVariantMap decodes a stored variant blob and normalizes it.
// Absent, malformed or non-object content degrades to nil rather than
// surfacing an error; corrupt variant data reads as "no variant data".
func ParseVariantMap(raw *string) map[string][]string {
	if raw == nil || *raw == "" {
		return nil
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(*raw), &decoded); err != nil {
		return nil
	}
	return NormalizeVariantMap(decoded)
}

// ParseStringList decodes a stored JSON array of strings, nil on malformed content.
func ParseStringList(raw *string) []string {
	if raw == nil || *raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(*raw), &list); err != nil {
		return nil
	}
	return list
}

// ParseSizeStock decodes a stored per-size stock map, nil on malformed content.
func ParseSizeStock(raw *string) map[string]int {
	if raw == nil || *raw == "" {
		return nil
	}
	var stock map[string]int
	if err := json.Unmarshal([]byte(*raw), &stock); err != nil {
		return nil
	}
	return stock
}

func parseAttributes(raw *string) map[string]any {
	if raw == nil || *raw == "" {
		return nil
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(*raw), &attrs); err != nil {
		return nil
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// EncodeJSON serializes v for storage in a *_json column. Nil maps and
// empty values produce a nil pointer so the column stays NULL.
func EncodeJSON(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	switch typed := v.(type) {
	case map[string][]string:
		if len(typed) == 0 {
			return nil, nil
		}
	case map[string]int:
		if len(typed) == 0 {
			return nil, nil
		}
	case map[string]any:
		if len(typed) == 0 {
			return nil, nil
		}
	case []string:
		if len(typed) == 0 {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	encoded := string(data)
	return &encoded, nil
}
