//go:build blackbox

package blackbox

import (
	"strings"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }
