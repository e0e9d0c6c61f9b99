package record

import (
	"strconv"
	"strings"
)

// FieldType tags the input kind inferred for an editable column.
type FieldType string

// Field type constants
const (
	TypeText    FieldType = "text"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
)

// SystemColumns are maintained by the storage layer and are never
// user-editable.
var SystemColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// EditableField describes one record column eligible for editing.
type EditableField struct {
	Key   string
	Label string
	Type  FieldType
}

// FormState is the transient edit buffer for one record: string values
// for text and number fields, bool values for boolean fields.
type FormState map[string]any

// UpdatePayload is the sanitized partial set of column changes sent
// back to storage. Values are typed and null-coalesced.
type UpdatePayload map[string]any

// DeriveEditableFields inspects a record's runtime value types and
// returns the editable field set in the record's key order.
// System columns are excluded. Nested objects and arrays are skipped:
// they cannot be edited as flat inputs and must not corrupt the form.
// A nil or absent value defaults to a text field.
// INVARIANT: pure; the record is not mutated
func DeriveEditableFields(r *Record) []EditableField {
	var fields []EditableField
	for _, key := range r.Keys() {
		if SystemColumns[key] {
			continue
		}
		value, _ := r.Get(key)
		fieldType, ok := inferType(value)
		if !ok {
			continue
		}
		fields = append(fields, EditableField{
			Key:   key,
			Label: Humanize(key),
			Type:  fieldType,
		})
	}
	return fields
}

// BuildFormState converts a record into form state for the given fields.
// Boolean fields coerce to bool (nil/absent is false); all other fields
// coerce to their string representation (nil/absent is "", so inputs
// render empty rather than the literal "null").
// INVARIANT: pure; calling twice yields identical state
func BuildFormState(r *Record, fields []EditableField) FormState {
	state := make(FormState, len(fields))
	for _, f := range fields {
		value, _ := r.Get(f.Key)
		if f.Type == TypeBoolean {
			b, _ := value.(bool)
			state[f.Key] = b
			continue
		}
		state[f.Key] = stringify(value)
	}
	return state
}

// BuildUpdatePayload converts edited form state into the partial-update
// payload. Text and number values are trimmed; an empty value becomes
// nil. Number values must parse fully as floats (strconv.ParseFloat on
// the whole string); unparseable numeric text also becomes nil rather
// than being persisted as garbage. System columns are dropped even if
// a caller passed them in the field set.
func BuildUpdatePayload(state FormState, fields []EditableField) UpdatePayload {
	payload := make(UpdatePayload, len(fields))
	for _, f := range fields {
		if SystemColumns[f.Key] {
			continue
		}
		raw, present := state[f.Key]
		switch f.Type {
		case TypeBoolean:
			b, _ := raw.(bool)
			payload[f.Key] = b
		case TypeNumber:
			s := strings.TrimSpace(stringifyForm(raw, present))
			if s == "" {
				payload[f.Key] = nil
				break
			}
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				payload[f.Key] = nil
				break
			}
			payload[f.Key] = n
		default:
			s := strings.TrimSpace(stringifyForm(raw, present))
			if s == "" {
				payload[f.Key] = nil
				break
			}
			payload[f.Key] = s
		}
	}
	return payload
}

// SanitizeUpdate strips system columns and nil-safe-copies an inbound
// update object. The HTTP layer calls this on every update request so
// a client cannot smuggle id/created_at/updated_at overwrites no
// matter what it sent.
func SanitizeUpdate(updates map[string]any) map[string]any {
	sanitized := make(map[string]any, len(updates))
	for key, value := range updates {
		if SystemColumns[key] {
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

// Humanize turns a column name into a display label: underscores become
// spaces and each word is capitalized ("action_url" -> "Action Url").
func Humanize(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// inferType maps a runtime value to a field type. The second return is
// false for values that cannot be edited as a flat input.
func inferType(value any) (FieldType, bool) {
	switch value.(type) {
	case nil:
		return TypeText, true
	case string:
		return TypeText, true
	case float64:
		return TypeNumber, true
	case bool:
		return TypeBoolean, true
	default:
		// Nested objects, arrays, and anything else non-scalar.
		return "", false
	}
}

// stringify renders a scalar for an input field.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// stringifyForm renders a form-state value; absent keys read as empty.
func stringifyForm(raw any, present bool) string {
	if !present {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
