package cli

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidateParticipantID checks that an ID has the PART- prefix format.
// Returns an error with a helpful message when the ID looks like a bare
// number or uses the wrong case. Empty is OK; required-flag handling
// catches missing IDs.
func ValidateParticipantID(id string) error {
	if id == "" {
		return nil
	}

	if strings.HasPrefix(id, "PART-") {
		return nil
	}

	// Check if it looks like a bare number
	if matched, _ := regexp.MatchString(`^\d+$`, id); matched {
		return fmt.Errorf("invalid participant ID '%s'. Use full ID format: PART-%s", id, id)
	}

	// Check if it's using wrong case
	if strings.HasPrefix(strings.ToUpper(id), "PART-") {
		return fmt.Errorf("invalid participant ID '%s'. IDs are case-sensitive, use: %s", id, strings.ToUpper(id))
	}

	return fmt.Errorf("invalid participant ID '%s'. Expected format: PART-xxx", id)
}
