package lexicon

import (
	"strconv"
	"strings"
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
	"thirty": 30, "forty": 40, "fifty": 50, "sixty": 60, "seventy": 70,
	"eighty": 80, "ninety": 90, "hundred": 100,
}

var unitMultipliers = map[string]float64{
	"hundred": 1e2, "hundreds": 1e2,
	"thousand": 1e3, "thousands": 1e3, "k": 1e3,
	"million": 1e6, "millions": 1e6, "m": 1e6,
	"billion": 1e9, "billions": 1e9, "b": 1e9, "bn": 1e9, "bil": 1e9,
}

// ParseInt reads an integer written in digits ("1,500") or as a word ("five")
func ParseInt(word string) (int, bool) {
	w := strings.ReplaceAll(word, ",", "")
	if n, err := strconv.Atoi(w); err == nil {
		return n, true
	}
	n, ok := numberWords[strings.ToLower(word)]
	return n, ok
}

// ParseNumber reads a decimal or integer number, in digits or as a word
func ParseNumber(word string) (float64, bool) {
	w := strings.ReplaceAll(word, ",", "")
	if f, err := strconv.ParseFloat(w, 64); err == nil {
		return f, true
	}
	if n, ok := numberWords[strings.ToLower(word)]; ok {
		return float64(n), true
	}
	return 0, false
}

// Multiplier returns the scale of a unit word ("million" -> 1e6, "bn" -> 1e9)
func Multiplier(word string) (float64, bool) {
	m, ok := unitMultipliers[strings.ToLower(word)]
	return m, ok
}
