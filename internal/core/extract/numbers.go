package extract

import (
	"strconv"
	"strings"
)

// numberPattern matches digits or a German number word; longer alternatives first.
const numberPattern = `(\d{1,3}|sechsunddreißig|vierundzwanzig|achtzehn|zwölf|zehn|elf|neun|acht|sieben|sechs|fünf|vier|drei|zwei|einem|einen|einer|eine|ein)`

// unitPattern matches a time unit in any inflection.
const unitPattern = `(tagen|tage|tag|wochen|woche|monaten|monate|monat|jahren|jahre|jahr)`

var numberWords = map[string]int{
	"ein": 1, "eine": 1, "einen": 1, "einem": 1, "einer": 1,
	"zwei": 2, "drei": 3, "vier": 4, "fünf": 5, "sechs": 6,
	"sieben": 7, "acht": 8, "neun": 9, "zehn": 10, "elf": 11, "zwölf": 12,
	"achtzehn": 18, "vierundzwanzig": 24, "sechsunddreißig": 36,
}

// parseNumber reads digits or a number word; ok is false for anything else.
func parseNumber(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	n, ok := numberWords[s]
	return n, ok
}

// unitDays converts n units to days using 30-day months and 365-day years.
func unitDays(n int, unit string) int {
	switch {
	case strings.HasPrefix(unit, "tag"):
		return n
	case strings.HasPrefix(unit, "woche"):
		return n * 7
	case strings.HasPrefix(unit, "monat"):
		return n * 30
	case strings.HasPrefix(unit, "jahr"):
		return n * 365
	}
	return 0
}

// unitMonths converts n units to months; days and weeks are not month units.
func unitMonths(n int, unit string) (int, bool) {
	switch {
	case strings.HasPrefix(unit, "monat"):
		return n, true
	case strings.HasPrefix(unit, "jahr"):
		return n * 12, true
	}
	return 0, false
}
