package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"greatmerchant/internal/market"
)

// The inventory, mercs and stats cells hold compact textual encodings.
// They must round-trip: load then save without edits produces an
// equivalent cell. Counts are rendered with sorted keys for stability.

// EncodeCounts renders a name→count mapping as "name:count,name:count".
func EncodeCounts(m map[string]int) string {
	if len(m) == 0 {
		return ""
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s:%d", name, m[name]))
	}
	return strings.Join(parts, ",")
}

// DecodeCounts parses the EncodeCounts format. Zero counts are dropped,
// negative or malformed counts are an error. An empty cell is an empty
// mapping.
func DecodeCounts(cell string) (map[string]int, error) {
	out := map[string]int{}
	for _, part := range strings.Split(cell, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i := strings.LastIndex(part, ":")
		if i < 0 {
			return nil, fmt.Errorf("malformed count entry %q", part)
		}
		name := strings.TrimSpace(part[:i])
		n, err := strconv.Atoi(strings.TrimSpace(part[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("malformed count entry %q: %v", part, err)
		}
		if name == "" || n < 0 {
			return nil, fmt.Errorf("malformed count entry %q", part)
		}
		if n == 0 {
			continue
		}
		out[name] += n
	}
	return out, nil
}

// EncodeList renders an ordered name sequence, comma separated.
func EncodeList(names []string) string {
	return strings.Join(names, ",")
}

// DecodeList parses EncodeList output, trimming entries and dropping
// blanks. Order is preserved.
func DecodeList(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Stats cells reuse the counts codec with fixed keys.
const (
	statBought = "bought"
	statSold   = "sold"
	statSpent  = "spent"
	statEarned = "earned"
	statTrades = "trades"
)

func EncodeStats(st market.Stats) string {
	m := map[string]int{}
	if st.TotalBought > 0 {
		m[statBought] = st.TotalBought
	}
	if st.TotalSold > 0 {
		m[statSold] = st.TotalSold
	}
	if st.TotalSpent > 0 {
		m[statSpent] = st.TotalSpent
	}
	if st.TotalEarned > 0 {
		m[statEarned] = st.TotalEarned
	}
	if st.TradeCount > 0 {
		m[statTrades] = st.TradeCount
	}
	return EncodeCounts(m)
}

func DecodeStats(cell string) (market.Stats, error) {
	m, err := DecodeCounts(cell)
	if err != nil {
		return market.Stats{}, err
	}
	return market.Stats{
		TotalBought: m[statBought],
		TotalSold:   m[statSold],
		TotalSpent:  m[statSpent],
		TotalEarned: m[statEarned],
		TradeCount:  m[statTrades],
	}, nil
}
