package domain

// Field names shared by the gateway, the validator, and the mongo store.
const (
	FieldID        = "_id"
	FieldClientID  = "clientId"
	FieldTrainerID = "trainerId"
)

// Record is a protected record as the generic store hands it back: a
// plain key-value document with a string _id and whatever domain fields
// the collection defines. The store enforces no schema; the integrity
// validator does that at write time.
type Record map[string]any

// ID returns the record's _id, or "" when absent.
func (r Record) ID() string { return r.stringField(FieldID) }

// ClientID returns the clientId ownership field, or "" when absent.
func (r Record) ClientID() string { return r.stringField(FieldClientID) }

// TrainerID returns the trainerId ownership field, or "" when absent.
func (r Record) TrainerID() string { return r.stringField(FieldTrainerID) }

// stringField returns the named field when it is a non-empty string.
// Any other type counts as absent: ownership comparisons must never
// succeed against a value that is not a plain member id.
func (r Record) stringField(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// HasField reports whether the field is present, non-nil, and (for
// strings) non-empty.
func (r Record) HasField(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return false
	}
	return true
}

// Clone returns a shallow copy. Callers that mutate a record before a
// write work on a copy so the original stays untouched.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
