// Package increment renders the increment statements printed by rachet-inc.
package increment

import (
	"fmt"
	"strconv"
)

// DefaultAmount is used when no amount argument is given.
const DefaultAmount int32 = 1

// Statement returns the increment statement for the variable.
//
//	Statement("counter", 2) → "counter += 2;"
func Statement(name string, amount int32) string {
	return fmt.Sprintf("%s += %d;", name, amount)
}

// ParseAmount parses a base-10 signed 32-bit integer. A leading "+" or "-"
// is accepted; surrounding whitespace is not.
func ParseAmount(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("Amount '%s' is not a valid integer", s)
	}
	return int32(n), nil
}
