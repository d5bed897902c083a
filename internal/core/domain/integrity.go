package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DataIntegrityError reports a write that would create a record missing
// the ownership or scoping fields the gateway's read-side filtering
// depends on. Such a record would be an orphan, invisible to the callers
// it belongs to, so the write is rejected before it reaches the store.
type DataIntegrityError struct {
	Collection    Collection
	MissingFields []string
	Rule          []string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("integrity violation in %s: missing required fields [%s]",
		e.Collection, strings.Join(e.MissingFields, ", "))
}

// ValidateRecord checks a record against its collection's required-field
// rule. A collection with no rule is not validated; that is the escape
// hatch for intentionally unscoped collections and callers should treat
// it as such, not as a green light.
func ValidateRecord(c Collection, rec Record) error {
	rule, ok := RuleFor(c)
	if !ok {
		return nil
	}

	var missing []string
	for _, field := range rule.RequiredFields {
		if !rec.HasField(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &DataIntegrityError{
			Collection:    c,
			MissingFields: missing,
			Rule:          rule.RequiredFields,
		}
	}
	return nil
}

// ValidationReport is the result of a batch audit over a collection.
type ValidationReport struct {
	Collection Collection            `json:"collection"`
	Valid      []Record              `json:"valid"`
	Invalid    []Record              `json:"invalid"`
	Errors     []*DataIntegrityError `json:"errors"`
}

// ValidateRecords runs ValidateRecord over a batch and partitions the
// results. Used by the admin integrity audit endpoint.
func ValidateRecords(c Collection, recs []Record) ValidationReport {
	report := ValidationReport{Collection: c}
	for _, rec := range recs {
		if err := ValidateRecord(c, rec); err != nil {
			var ie *DataIntegrityError
			if errors.As(err, &ie) {
				report.Errors = append(report.Errors, ie)
			}
			report.Invalid = append(report.Invalid, rec)
			continue
		}
		report.Valid = append(report.Valid, rec)
	}
	return report
}
