package utils

import (
	"fmt"
	"strings"

	"society-portal-api/models"
)

var kindAliases = map[string]string{
	"society":        models.KindSociety,
	"societies":      models.KindSociety,
	"event_request":  models.KindEventRequest,
	"event-request":  models.KindEventRequest,
	"event-requests": models.KindEventRequest,
	"event":          models.KindEventRequest,
}

// ParseEntityKind resolves URL and query spellings of an entity kind to its
// canonical value.
func ParseEntityKind(s string) (string, error) {
	kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown entity kind: %s", s)
	}
	return kind, nil
}
