package universe

// Assign returns the subset of tickers belonging to shard `index` out of
// `total` shards: positions p where p mod total == index. The input must be
// sorted and de-duplicated so that every shard derives the same positions.
// The union over all indexes is exactly the input, with no overlap.
func Assign(tickers []string, total, index int) []string {
	if total <= 1 {
		out := make([]string, len(tickers))
		copy(out, tickers)
		return out
	}

	out := make([]string, 0, len(tickers)/total+1)
	for i, t := range tickers {
		if i%total == index {
			out = append(out, t)
		}
	}
	return out
}
