package stats

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// aggregateFun computes the whimsical display-name metrics. It only
// reads the immutable snapshot, so it is safe to run concurrently with
// the rest of a refresh. Every metric has a defined value on an empty
// snapshot; none of them can fail.
//
// everythingOff is precomputed by the core pass so the two aggregators
// never scan for the same fact twice.
func aggregateFun(snap Snapshot, everythingOff bool, dayOfYear int) map[string]any {
	names := make([]string, 0, len(snap))
	for _, r := range snap {
		if name := r.FriendlyName(); name != "" {
			names = append(names, name)
		}
	}

	avgIDLen, longestID, shortestID := entityIDLengths(snap)
	mostUsedEmoji, emojiDensity := emojiStats(names)

	return map[string]any{
		"avg_entity_id_length":        avgIDLen,
		"longest_entity_id":           longestID,
		"shortest_entity_id":          shortestID,
		"most_used_emoji":             mostUsedEmoji,
		"emoji_density":               emojiDensity,
		"devices_named_after_pokemon": pokemonNameCount(names),
		"most_redundant_name":         mostRedundantName(names),
		"names_with_numbers":          namesWithNumbers(names),
		"random_daily_quote":          deviceQuotes[dayOfYear%len(deviceQuotes)],
		"house_mascot":                houseMascots[dayOfYear%len(houseMascots)],
		"everything_off":              everythingOff,
	}
}

// entityIDLengths reports the mean id length (rounded to 2 decimals)
// plus the longest and shortest ids. Length ties keep the id seen
// first; an empty snapshot yields 0.0 and empty strings.
func entityIDLengths(snap Snapshot) (avg float64, longest, shortest string) {
	if len(snap) == 0 {
		return 0.0, "", ""
	}

	total := 0
	longestLen, shortestLen := -1, -1
	for _, r := range snap {
		n := utf8.RuneCountInString(r.EntityID)
		total += n
		if n > longestLen {
			longest, longestLen = r.EntityID, n
		}
		if shortestLen < 0 || n < shortestLen {
			shortest, shortestLen = r.EntityID, n
		}
	}

	return roundTo(float64(total)/float64(len(snap)), 2), longest, shortest
}

// emojiStats tallies emoji characters across all names. The winner is
// the first emoji to reach the maximum count in encounter order; the
// placeholder stands in when no emoji exists at all. Density is emoji
// characters per name character, as a percentage rounded to 2 decimals.
func emojiStats(names []string) (mostUsed string, density float64) {
	counts := make(map[rune]int)
	var order []rune
	totalChars := 0
	emojiChars := 0

	for _, name := range names {
		totalChars += utf8.RuneCountInString(name)
		for _, r := range name {
			if !isEmoji(r) {
				continue
			}
			emojiChars++
			if counts[r] == 0 {
				order = append(order, r)
			}
			counts[r]++
		}
	}

	mostUsed = emojiPlaceholder
	best := 0
	for _, r := range order {
		if counts[r] > best {
			best = counts[r]
			mostUsed = string(r)
		}
	}

	if totalChars > 0 {
		density = roundTo(float64(emojiChars)/float64(totalChars)*100, 2)
	}
	return mostUsed, density
}

// pokemonNameCount counts entities whose display name contains any
// reference word, case-insensitively. An entity matches at most once.
func pokemonNameCount(names []string) int {
	count := 0
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, pokemon := range pokemonNames {
			if strings.Contains(lower, pokemon) {
				count++
				break
			}
		}
	}
	return count
}

// mostRedundantName finds the cleaned (trimmed, lowercased) display
// name shared by the most entities. Frequency ties go to the shorter
// name, then to first-encountered order. Only reported when a name
// actually repeats.
func mostRedundantName(names []string) string {
	freq := make(map[string]int)
	var order []string
	for _, name := range names {
		clean := strings.ToLower(strings.TrimSpace(name))
		if clean == "" {
			continue
		}
		if freq[clean] == 0 {
			order = append(order, clean)
		}
		freq[clean]++
	}

	best := ""
	for _, name := range order {
		if best == "" ||
			freq[name] > freq[best] ||
			(freq[name] == freq[best] && utf8.RuneCountInString(name) < utf8.RuneCountInString(best)) {
			best = name
		}
	}

	if best == "" || freq[best] <= 1 {
		return noRedundantName
	}
	return fmt.Sprintf("'%s' (×%d)", best, freq[best])
}

func namesWithNumbers(names []string) int {
	count := 0
	for _, name := range names {
		for _, r := range name {
			if unicode.IsDigit(r) {
				count++
				break
			}
		}
	}
	return count
}
