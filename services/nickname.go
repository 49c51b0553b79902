package services

import (
	"fmt"
	"strings"

	"github.com/Dosada05/event-companion/models"
)

// nameParts splits a full name into the leading given name and the token
// right after it as the surname. Further tokens take no part in nicknames.
func nameParts(fullName string) (first, surname string) {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return "", ""
	}
	first = fields[0]
	if len(fields) > 1 {
		surname = fields[1]
	}
	return first, surname
}

// computeUniqueNickname derives a short form of a full name that is not
// already taken. "Alice Johnson" becomes "Alice J.", growing the surname
// prefix ("Alice Jo.", "Alice Joh.", ...) until the collision with an
// existing nickname disappears; a numeric suffix is the last resort.
// Comparison is case-insensitive. This seeds a new player's nickname; the
// rebuild pass then rebalances the whole set.
func computeUniqueNickname(fullName string, taken map[string]bool) string {
	first, surname := nameParts(fullName)
	if first == "" {
		return ""
	}
	if surname == "" {
		if !taken[strings.ToLower(first)] {
			return first
		}
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s %d", first, n)
			if !taken[strings.ToLower(candidate)] {
				return candidate
			}
		}
	}

	runes := []rune(surname)
	for prefixLen := 1; prefixLen <= len(runes); prefixLen++ {
		candidate := first + " " + string(runes[:prefixLen]) + "."
		if !taken[strings.ToLower(candidate)] {
			return candidate
		}
	}
	// The whole surname did not help; number the shortest form.
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s %s %d.", first, string(runes[:1]), n)
		if !taken[strings.ToLower(candidate)] {
			return candidate
		}
	}
}

// computeAllNicknames recomputes every nickname at once. Players sharing a
// first name get the minimal surname prefix that tells them apart within the
// group, so "Alice Johnson" next to "Alice Jackson" yields "Alice Jo." and
// "Alice Ja." no matter who registered first. Identical short forms fall back
// to numeric suffixes, assigned in input order.
func computeAllNicknames(players []*models.Player) map[int]string {
	type nameEntry struct {
		id      int
		first   string
		surname string
	}
	entries := make([]nameEntry, 0, len(players))
	groups := make(map[string][]int)
	for _, player := range players {
		first, surname := nameParts(player.Name)
		if first == "" {
			continue
		}
		groups[strings.ToLower(first)] = append(groups[strings.ToLower(first)], len(entries))
		entries = append(entries, nameEntry{id: player.ID, first: first, surname: surname})
	}

	out := make(map[int]string, len(entries))
	taken := make(map[string]bool, len(entries))
	firstOnly := make(map[string]int)
	for i, entry := range entries {
		var candidate string
		if entry.surname == "" {
			firstOnly[strings.ToLower(entry.first)]++
			if n := firstOnly[strings.ToLower(entry.first)]; n > 1 {
				candidate = fmt.Sprintf("%s %d", entry.first, n)
			} else {
				candidate = entry.first
			}
		} else {
			// One letter past the longest prefix shared with any other surname
			// in the same first-name group, capped at the full surname.
			need := 1
			for _, j := range groups[strings.ToLower(entry.first)] {
				if j == i || entries[j].surname == "" {
					continue
				}
				if l := commonPrefixLen(entry.surname, entries[j].surname) + 1; l > need {
					need = l
				}
			}
			runes := []rune(entry.surname)
			if need > len(runes) {
				need = len(runes)
			}
			candidate = entry.first + " " + string(runes[:need]) + "."
		}
		nickname := disambiguateNickname(candidate, taken)
		taken[strings.ToLower(nickname)] = true
		out[entry.id] = nickname
	}
	return out
}

// commonPrefixLen counts leading runes shared by a and b, ignoring case.
func commonPrefixLen(a, b string) int {
	ra, rb := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return n
}

// disambiguateNickname appends the smallest free numeric suffix, keeping the
// trailing dot of abbreviated forms ("Bo Lee 2.").
func disambiguateNickname(candidate string, taken map[string]bool) string {
	if !taken[strings.ToLower(candidate)] {
		return candidate
	}
	base, abbreviated := strings.CutSuffix(candidate, ".")
	for n := 2; ; n++ {
		next := fmt.Sprintf("%s %d", base, n)
		if abbreviated {
			next += "."
		}
		if !taken[strings.ToLower(next)] {
			return next
		}
	}
}
