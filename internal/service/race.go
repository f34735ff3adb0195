package service

import (
	"strings"
	"unicode"
)

// raceWords lowercases a self-reported race/ethnicity string and splits it
// into words. Category terms must match whole words only: "Caucasian"
// contains "asian" as a substring but is not an Asian category.
func raceWords(race string) []string {
	return strings.FieldsFunc(strings.ToLower(race), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// raceHasTerm reports whether term appears in race as a contiguous
// whole-word sequence. Terms may span multiple words ("pacific islander").
func raceHasTerm(race, term string) bool {
	words := raceWords(race)
	target := strings.Fields(term)
	if len(target) == 0 {
		return false
	}
	for i := 0; i+len(target) <= len(words); i++ {
		match := true
		for j, t := range target {
			if words[i+j] != t {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
