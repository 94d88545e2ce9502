package dates

// daysInMonth holds the day count for each month of a common year.
var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear applies the Gregorian 4/100/400 rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in month of year, or 0 for a bad month.
func DaysIn(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysInMonth[month-1]
}

// IsValidDate reports whether year-month-day names a real calendar day.
func IsValidDate(year, month, day int) bool {
	if year < 1 || year > 9999 {
		return false
	}
	return day >= 1 && day <= DaysIn(year, month)
}
