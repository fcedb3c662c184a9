package api

import "time"

// EpochMillis is a timestamp carried on the wire as signed epoch milliseconds.
// Optional timestamps are *EpochMillis so that null and absent both decode to nil.
type EpochMillis int64

// NewEpochMillis converts t to epoch milliseconds, dropping sub-millisecond precision.
func NewEpochMillis(t time.Time) EpochMillis {
	return EpochMillis(t.UnixMilli())
}

// Time returns the UTC instant, built from whole seconds plus the millisecond remainder.
func (m EpochMillis) Time() time.Time {
	sec := int64(m) / 1000
	msec := int64(m) % 1000
	return time.Unix(sec, msec*int64(time.Millisecond)).UTC()
}

// TimePtr returns nil for a nil receiver.
func (m *EpochMillis) TimePtr() *time.Time {
	if m == nil {
		return nil
	}
	t := m.Time()
	return &t
}

// EpochMillisPtr is the inverse of TimePtr.
func EpochMillisPtr(t *time.Time) *EpochMillis {
	if t == nil {
		return nil
	}
	m := NewEpochMillis(*t)
	return &m
}
