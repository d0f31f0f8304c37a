package utils

import (
	"strconv"
	"time"
)

const dobLayout = "02/01/2006" // DD/MM/YYYY

// AgeFromDOB computes a whole-year age from a DD/MM/YYYY date of birth,
// decrementing by one when the current month/day precedes the birth
// month/day. Unparseable input renders as "N/A".
func AgeFromDOB(dob string, now time.Time) string {
	birth, err := time.Parse(dobLayout, dob)
	if err != nil {
		return "N/A"
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return "N/A"
	}
	return strconv.Itoa(age)
}
