package utils

import "encoding/json"

// ConvertString renders any value as a JSON string for log metadata.
func ConvertString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case []byte:
		return string(value)
	case error:
		if value == nil {
			return ""
		}
		return value.Error()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
