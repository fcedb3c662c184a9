package soracom

import "github.com/google/go-querystring/query"

// TagValueMatchMode selects how TagValue is compared against subscriber tags.
type TagValueMatchMode string

const (
	// TagValueMatchUnspecified leaves the mode to the server default and is never sent.
	TagValueMatchUnspecified TagValueMatchMode = ""
	// TagValueMatchExact requires the tag value to equal TagValue.
	TagValueMatchExact TagValueMatchMode = "exact"
	// TagValueMatchPrefix requires the tag value to start with TagValue.
	TagValueMatchPrefix TagValueMatchMode = "prefix"
)

func (m TagValueMatchMode) String() string {
	return string(m)
}

// ListSubscribersOptions filters and pages ListSubscribers.
// Zero-valued fields are left out of the query string. Limit is only sent when positive.
type ListSubscribersOptions struct {
	TagName           string            `url:"tag_name,omitempty"`
	TagValue          string            `url:"tag_value,omitempty"`
	TagValueMatchMode TagValueMatchMode `url:"tag_value_match_mode,omitempty"`
	StatusFilter      string            `url:"status_filter,omitempty"`
	TypeFilter        string            `url:"type_filter,omitempty"`
	Limit             int               `url:"limit,omitempty"`
	LastEvaluatedKey  string            `url:"last_evaluated_key,omitempty"`
}

// QueryParams encodes the options as a query string without the leading '?'.
// Keys are sorted and values percent-encoded. It reports false when nothing is set.
func (o *ListSubscribersOptions) QueryParams() (string, bool) {
	if o == nil {
		return "", false
	}
	opts := *o
	if opts.Limit < 0 {
		opts.Limit = 0
	}

	// Values only fails for non-struct input.
	v, err := query.Values(opts)
	if err != nil || len(v) == 0 {
		return "", false
	}
	return v.Encode(), true
}
