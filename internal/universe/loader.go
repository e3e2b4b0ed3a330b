package universe

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// symbolPattern matches valid ticker symbols (BRK.B, BF-B, plain tickers).
var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// Load reads the ticker universe file: one symbol per line. Lines are
// upper-cased and trimmed; anything not matching the symbol pattern is
// dropped. The result is sorted and de-duplicated.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe file: %w", err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	tickers := make([]string, 0, 512)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		s := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if s == "" || !symbolPattern.MatchString(s) {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		tickers = append(tickers, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read universe file: %w", err)
	}

	sort.Strings(tickers)
	return tickers, nil
}

// WriteList writes symbols to the universe file, sorted and de-duplicated,
// one per line.
func WriteList(path string, symbols []string) error {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)

	data := strings.Join(out, "\n")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write universe file: %w", err)
	}
	return nil
}
