// Package prefs contains the preference entry model shared by the collector,
// the filters and the serializers, together with the statistics counter set
// that those stages update during an export run.
package prefs

// Status is the override state of a preference.
type Status string

const (
	// StatusLocked means the preference is locked to its default value
	StatusLocked Status = "locked"

	// StatusUserSet means the preference carries a user value
	StatusUserSet Status = "userset"

	// StatusDefault means the preference only has its default value
	StatusDefault Status = "default"
)

// Statuses lists every status in precedence order.
var Statuses = []Status{StatusLocked, StatusUserSet, StatusDefault}

// Type is the declared type of a preference.
type Type string

const (
	// TypeBoolean is a boolean preference
	TypeBoolean Type = "boolean"

	// TypeInteger is an integer preference
	TypeInteger Type = "integer"

	// TypeString is a string preference
	TypeString Type = "string"

	// TypeInvalid is reported by a store for a key without a usable type
	TypeInvalid Type = "<PREF_INVALID>"

	// TypeUnknown is any type the store reports that is not one of the above
	TypeUnknown Type = "<PREF_UNKNOWN>"
)

// Types lists every type.
var Types = []Type{TypeBoolean, TypeInteger, TypeString, TypeInvalid, TypeUnknown}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusLocked, StatusUserSet, StatusDefault:
		return true
	}
	return false
}

// IsValid reports whether t is one of the known types.
func (t Type) IsValid() bool {
	switch t {
	case TypeBoolean, TypeInteger, TypeString, TypeInvalid, TypeUnknown:
		return true
	}
	return false
}

// IsError reports whether t is one of the error types.
func (t Type) IsError() bool {
	return t == TypeInvalid || t == TypeUnknown
}

// Entry is one classified preference. Entries are never modified once the
// collector has built them.
type Entry struct {
	Name         string `json:"name"`
	Status       Status `json:"status"`
	Type         Type   `json:"type"`
	Value        Value  `json:"value"`
	DefaultValue Value  `json:"defaultValue"`
}
