package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		b.lotto.Command(),
	}

	for _, cmd := range commands {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
		b.registered = append(b.registered, created)
	}

	log.WithField("count", len(b.registered)).Info("Registered slash commands")
	return nil
}

// unregisterCommands removes guild-scoped commands; global ones are kept
// because they take up to an hour to propagate again.
func (b *Bot) unregisterCommands() {
	if b.config.GuildID == "" {
		return
	}
	for _, cmd := range b.registered {
		if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, cmd.ID); err != nil {
			log.WithError(err).WithField("command", cmd.Name).Warn("Failed to delete command")
		}
	}
	b.registered = nil
}
