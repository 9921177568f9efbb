package bot

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// BotUserIDPrefix marks bot player ids that do not come from the identity file.
const BotUserIDPrefix = "bot-"

type BotIdentity struct {
	UserID      string `yaml:"user_id"`
	Username    string `yaml:"username"`
	DisplayName string `yaml:"display_name"`
	Difficulty  string `yaml:"difficulty"` // "easy" or "good"
}

var (
	botIdentities []BotIdentity
	botConfigMap  map[string]BotIdentity
	loadOnce      sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		var identities []BotIdentity
		if err := yaml.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		for _, identity := range identities {
			if !strings.HasPrefix(identity.UserID, BotUserIDPrefix) {
				loadErr = fmt.Errorf("bot identity %q must start with %q", identity.UserID, BotUserIDPrefix)
				return
			}
		}
		botIdentities = identities
		botConfigMap = make(map[string]BotIdentity, len(identities))
		for _, identity := range identities {
			botConfigMap[identity.UserID] = identity
		}
	})
	return loadErr
}

// GetBotConfig returns the full identity configuration for a given bot ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	identity, ok := botConfigMap[userID]
	return identity, ok
}

// GetBotDisplayName returns the display name for a bot ID, or an empty string if not a bot.
func GetBotDisplayName(userID string) string {
	if identity, ok := botConfigMap[userID]; ok {
		if identity.DisplayName != "" {
			return identity.DisplayName
		}
		return identity.Username
	}
	if IsBot(userID) {
		return "AI " + strings.TrimPrefix(userID, BotUserIDPrefix)
	}
	return ""
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("%s%d", BotUserIDPrefix, index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// IsBot reports whether the given user ID belongs to a bot.
func IsBot(userID string) bool {
	return strings.HasPrefix(userID, BotUserIDPrefix)
}
