package model

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const BiographyBaseURL = "https://mathshistory.st-andrews.ac.uk/Biographies/"

var italicMarker = regexp.MustCompile(`_([^_]+)_`)

// FormatYear renders a year for display, "Unknown" when absent.
func FormatYear(d DateInfo) string {
	if d.Year == nil {
		return "Unknown"
	}
	if d.Approx {
		return fmt.Sprintf("c. %d", *d.Year)
	}
	return fmt.Sprintf("%d", *d.Year)
}

func FormatPlace(d DateInfo) string {
	if d.Place == "" {
		return "Unknown"
	}
	return d.Place
}

// BiographyURL links to the source biography of the record.
func BiographyURL(id string) string {
	return BiographyBaseURL + id
}

// CleanSummary drops the _italic_ markers left over from markdown.
func CleanSummary(text string) string {
	if text == "" {
		return ""
	}
	return italicMarker.ReplaceAllString(text, "$1")
}

// Initials returns up to two upper-cased initials of a display name.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		if utf8.RuneCountInString(b.String()) == 2 {
			break
		}
	}
	return b.String()
}

// RecordView is a record together with its display strings.
type RecordView struct {
	Record
	BornYear     string `json:"born_year_display"`
	DiedYear     string `json:"died_year_display"`
	BornPlace    string `json:"born_place_display"`
	DiedPlace    string `json:"died_place_display"`
	CleanSummary string `json:"summary_display"`
	Initials     string `json:"initials"`
	URL          string `json:"url"`
}

func NewRecordView(r Record) RecordView {
	return RecordView{
		Record:       r,
		BornYear:     FormatYear(r.Born),
		DiedYear:     FormatYear(r.Died),
		BornPlace:    FormatPlace(r.Born),
		DiedPlace:    FormatPlace(r.Died),
		CleanSummary: CleanSummary(r.Summary),
		Initials:     Initials(r.Name),
		URL:          BiographyURL(r.ID),
	}
}
