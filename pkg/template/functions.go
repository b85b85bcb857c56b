package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func funcNow() string {
	return time.Now().Format(time.RFC3339)
}

func funcTimestamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

func funcGUID() string {
	return uuid.New().String()
}

func funcRandomHex(c *Context) string {
	var b [4]byte
	for i := range b {
		b[i] = byte(c.rng().IntN(256))
	}
	return fmt.Sprintf("%x", b)
}

func funcRandomInt(c *Context, min, max int) (string, bool) {
	if min > max {
		return "", false
	}
	return strconv.Itoa(c.rng().IntN(max-min+1) + min), true
}

func funcUpper(s string) string { return strings.ToUpper(s) }

func funcLower(s string) string { return strings.ToLower(s) }

func funcDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

// parseStringArg strips surrounding quotes from a literal argument, the
// same convention the teacher's template evaluator uses for function
// arguments like {{default value "fallback"}}.
func parseStringArg(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
