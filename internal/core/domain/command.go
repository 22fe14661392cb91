package domain

import (
	"slices"
	"strconv"
	"strings"
)

// CommandVector is a single process invocation: the executable followed by its arguments.
// Vectors are produced fresh for every step and are treated as values; methods never
// mutate the receiver.
type CommandVector []string

// Clone returns an independent copy of the vector.
func (c CommandVector) Clone() CommandVector {
	if c == nil {
		return nil
	}
	return slices.Clone(c)
}

// Executable returns the first token, or an empty string for an empty vector.
func (c CommandVector) Executable() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Args returns every token after the executable.
func (c CommandVector) Args() []string {
	if len(c) < 2 {
		return nil
	}
	return c[1:]
}

// Count returns the number of tokens equal to token.
func (c CommandVector) Count(token string) int {
	n := 0
	for _, t := range c {
		if t == token {
			n++
		}
	}
	return n
}

// Contains reports whether token appears anywhere in the vector.
func (c CommandVector) Contains(token string) bool {
	return slices.Contains(c, token)
}

// StripFlagPairs removes every occurrence of flag together with the token that follows it.
// The scan restarts after each removal until no occurrence is left, so pairs scattered
// across the vector are all removed. A trailing flag with no value is removed on its own.
func (c CommandVector) StripFlagPairs(flag string) CommandVector {
	out := c.Clone()
	for {
		idx := slices.Index(out, flag)
		if idx < 0 {
			return out
		}
		end := min(idx+2, len(out))
		out = slices.Delete(out, idx, end)
	}
}

// String renders the vector the way a shell would accept it, for logs and dry runs.
func (c CommandVector) String() string {
	parts := make([]string, len(c))
	for i, t := range c {
		if t == "" || strings.ContainsAny(t, " \t\n\"'\\$`") {
			parts[i] = strconv.Quote(t)
			continue
		}
		parts[i] = t
	}
	return strings.Join(parts, " ")
}
