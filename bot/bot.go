package bot

import (
	"fmt"

	"lottocheck/bot/features/lotto"
	"lottocheck/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string // empty registers commands globally
	MaxSets int
}

// Bot manages the Discord session and the lotto feature
type Bot struct {
	config  Config
	session *discordgo.Session

	lotto *lotto.Feature

	registered []*discordgo.ApplicationCommand
}

// New opens a Discord session and registers slash commands
func New(config Config, service interfaces.LottoService) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:  config,
		session: dg,
		lotto:   lotto.NewFeature(service, config.MaxSets),
	}

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Close removes guild commands and closes the session
func (b *Bot) Close() error {
	b.unregisterCommands()
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("Discord bot ready")
}

// handleCommands routes slash commands to feature handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case lotto.CommandName:
		b.lotto.HandleCommand(s, i)
	default:
		log.WithField("command", i.ApplicationCommandData().Name).Warn("Unknown command")
	}
}
