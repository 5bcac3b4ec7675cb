// Package daterange validates and compares stay intervals.
//
// A stay is the half-open interval [CheckIn, CheckOut) of calendar dates. All inputs are
// normalized to midnight UTC of their own calendar date before any comparison, so the
// time-of-day component of a timestamp never changes a night count or an overlap result.
package daterange

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/clock"
)

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDateRange = apperror.New(http.StatusBadRequest, "check-out date must be after check-in date")
	ErrPastCheckInDate  = apperror.New(http.StatusBadRequest, "check-in date cannot be in the past")
)

// Range is a validated, normalized stay interval.
type Range struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New validates the two dates and returns the normalized range.
func New(checkIn, checkOut time.Time) (Range, error) {
	if err := Validate(checkIn, checkOut); err != nil {
		return Range{}, err
	}
	return Range{CheckIn: Normalize(checkIn), CheckOut: Normalize(checkOut)}, nil
}

// Normalize drops the time-of-day component, keeping the calendar date t has in its own location.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts either a bare calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDateRange.With("date is required")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateRange.With("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Normalize(t), nil
}

// Validate reports ErrInvalidDateRange when a date is missing or when check-out is not
// at least one night after check-in.
func Validate(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return ErrInvalidDateRange.With("check-in and check-out dates are required")
	}
	if !Normalize(checkOut).After(Normalize(checkIn)) {
		return ErrInvalidDateRange
	}
	return nil
}

// IsValid is the boolean form of Validate.
func IsValid(checkIn, checkOut time.Time) bool {
	return Validate(checkIn, checkOut) == nil
}

// NightCount returns the number of nights between the two dates.
func NightCount(checkIn, checkOut time.Time) (int, error) {
	if err := Validate(checkIn, checkOut); err != nil {
		return 0, err
	}
	d := Normalize(checkOut).Sub(Normalize(checkIn))
	return int(math.Ceil(d.Hours() / 24)), nil
}

// Nights is NightCount for an already validated range.
func (r Range) Nights() int {
	n, err := NightCount(r.CheckIn, r.CheckOut)
	if err != nil {
		return 0
	}
	return n
}

// Validate re-checks a Range built without New.
func (r Range) Validate() error {
	return Validate(r.CheckIn, r.CheckOut)
}

// Contains reports whether day falls inside [CheckIn, CheckOut).
// The check-out day itself is not contained.
func (r Range) Contains(day time.Time) bool {
	d := Normalize(day)
	return !d.Before(Normalize(r.CheckIn)) && d.Before(Normalize(r.CheckOut))
}

func (r Range) String() string {
	return r.CheckIn.Format(DateLayout) + ".." + r.CheckOut.Format(DateLayout)
}

// Overlaps reports whether a and b share at least one night.
// Back-to-back ranges, where one's check-out equals the other's check-in, do not overlap.
func Overlaps(a, b Range) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}
	if err := b.Validate(); err != nil {
		return false, err
	}
	aIn, aOut := Normalize(a.CheckIn), Normalize(a.CheckOut)
	bIn, bOut := Normalize(b.CheckIn), Normalize(b.CheckOut)
	return aIn.Before(bOut) && bIn.Before(aOut), nil
}

// Today returns the calendar date of c.Now().
func Today(c clock.Clock) time.Time {
	return Normalize(c.Now())
}

// IsInFuture reports whether date is strictly after today.
func IsInFuture(c clock.Clock, date time.Time) bool {
	return Normalize(date).After(Today(c))
}

// ValidateCheckIn rejects a check-in date strictly before today. Today itself is accepted.
func ValidateCheckIn(c clock.Clock, date time.Time) error {
	if date.IsZero() {
		return ErrInvalidDateRange.With("check-in date is required")
	}
	if Normalize(date).Before(Today(c)) {
		return ErrPastCheckInDate
	}
	return nil
}

// IsValidCheckIn is the boolean form of ValidateCheckIn.
func IsValidCheckIn(c clock.Clock, date time.Time) bool {
	return ValidateCheckIn(c, date) == nil
}
