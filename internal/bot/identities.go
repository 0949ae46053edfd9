package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Identity describes one AI seat profile.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarIndex int    `json:"avatar_index"`
}

var (
	identities   []Identity
	identityByID map[string]Identity
	loadOnce     sync.Once
	loadErr      error
)

// LoadIdentities loads the AI seat profiles from the given path. Missing
// or malformed files leave the built-in fallback names in place.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("read bot identities: %w", err)
			return
		}
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("unmarshal bot identities: %w", err)
			return
		}
		identityByID = make(map[string]Identity, len(identities))
		for _, id := range identities {
			if id.ID != "" {
				identityByID[id.ID] = id
			}
		}
	})
	return loadErr
}

// IdentityAt returns a profile for the given seat index, cycling through
// the loaded pool or synthesizing a fallback.
func IdentityAt(index int) Identity {
	if len(identities) == 0 {
		return Identity{
			ID:          fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index+1),
		}
	}
	return identities[index%len(identities)]
}

// IsBot reports whether the given player ID belongs to an AI seat.
func IsBot(playerID string) bool {
	if identityByID != nil {
		if _, ok := identityByID[playerID]; ok {
			return true
		}
	}
	return strings.HasPrefix(playerID, "bot-")
}

// DisplayName returns the profile name for a bot ID, or empty if unknown.
func DisplayName(playerID string) string {
	if identityByID == nil {
		return ""
	}
	return identityByID[playerID].DisplayName
}
