package automatic

import (
	"bufio"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// Seed drives one game's piece sequence.
type Seed [32]byte

func (s Seed) String() string {
	return base64.RawURLEncoding.EncodeToString(s[:])
}

// SeedFromString hashes an arbitrary string into a seed, so a short
// phrase on the command line is enough to reproduce a run.
func SeedFromString(s string) Seed {
	return Seed(sha256.Sum256([]byte(s)))
}

// DeriveSeeds makes n per-game seeds from one run seed.
func DeriveSeeds(base Seed, n int) []Seed {
	seeds := make([]Seed, n)
	for i := range seeds {
		seeds[i] = SeedFromString(fmt.Sprintf("%s/%d", base, i))
	}
	return seeds
}

// GenerateSeeds creates n random seeds.
func GenerateSeeds(n int) ([]Seed, error) {
	seeds := make([]Seed, n)
	for i := range seeds {
		if _, err := rand.Read(seeds[i][:]); err != nil {
			return nil, fmt.Errorf("failed to generate seed %d: %w", i, err)
		}
	}
	return seeds, nil
}

// SaveSeeds writes one base64 seed per line.
func SaveSeeds(seeds []Seed, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create seed file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintln(w, "# self-play seeds, base64 URL-safe, 32 bytes each")
	for _, s := range seeds {
		fmt.Fprintln(w, s)
	}
	return w.Flush()
}

// LoadSeeds reads a file written by SaveSeeds.
func LoadSeeds(path string) ([]Seed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	var seeds []Seed
	sc := bufio.NewScanner(file)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		decoded, err := base64.RawURLEncoding.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("failed to decode seed at line %d: %w", lineNum, err)
		}
		if len(decoded) != len(Seed{}) {
			return nil, fmt.Errorf("invalid seed length at line %d: got %d bytes", lineNum, len(decoded))
		}
		var s Seed
		copy(s[:], decoded)
		seeds = append(seeds, s)
	}
	return seeds, sc.Err()
}
