package event

import "encoding/json"

// DecodePayload returns the payload as T. In-process publishers hand over the
// struct itself; anything else (a map from a replayed dead-letter line, for
// instance) is converted through JSON.
func DecodePayload[T any](input any) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	if v, ok := input.(*T); ok && v != nil {
		return *v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}
