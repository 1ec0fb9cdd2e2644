package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bradykim7/mealroulette/internal/bot/commands"
	"github.com/bradykim7/mealroulette/pkg/config"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Dependencies are the services chat commands run against
type Dependencies struct {
	Suggestions commands.Suggester
	Meals       commands.MealCreator
	Restaurants commands.RestaurantCreator
}

// Bot은 Discord 봇을 나타냅니다
type Bot struct {
	session  *discordgo.Session
	config   *config.Config
	log      *zap.Logger
	commands *commands.Registry
}

// New는 새로운 Bot 인스턴스를 생성합니다
func New(cfg *config.Config, deps Dependencies, log *zap.Logger) (*Bot, error) {
	// Discord 세션 생성
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:  session,
		config:   cfg,
		log:      log.Named("bot"),
		commands: commands.NewRegistry(cfg.CommandPrefix, log),
	}

	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onMessageCreate)

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	RegisterCommands(bot.commands, deps, cfg.DefaultExcludeDays, session.HeartbeatLatency)

	return bot, nil
}

// RegisterCommands installs every chat command on registry
func RegisterCommands(registry *commands.Registry, deps Dependencies, excludeDays int, latency func() time.Duration) {
	registry.Register("ping", commands.NewPingCommand(latency))
	registry.Register("suggest", commands.NewSuggestCommand(deps.Suggestions, excludeDays), "뭐먹지")
	registry.Register("pick", commands.NewPickCommand(deps.Suggestions, excludeDays))
	registry.Register("now", commands.NewNowCommand(deps.Suggestions, excludeDays), "점메추", "저메추")
	registry.Register("diverse", commands.NewDiverseCommand(deps.Suggestions, excludeDays))
	registry.Register("stats", commands.NewStatsCommand(deps.Suggestions))
	registry.Register("addmeal", commands.NewAddMealCommand(deps.Meals))
	registry.Register("addrestaurant", commands.NewAddRestaurantCommand(deps.Restaurants))
}

// Start는 봇을 시작합니다
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	b.log.Info("Bot is running")

	// 컨텍스트가 취소될 때까지 대기
	<-ctx.Done()

	return b.Close()
}

// Close는 리소스를 정리합니다
func (b *Bot) Close() error {
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("failed to close Discord session: %w", err)
	}
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("Bot logged in",
		zap.String("username", r.User.Username),
		zap.String("discriminator", r.User.Discriminator))

	if err := s.UpdateGameStatus(0, b.config.CommandPrefix+"help"); err != nil {
		b.log.Error("Failed to update status", zap.Error(err))
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// 봇 자신의 메시지는 무시
	if m.Author == nil || m.Author.Bot || (s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}

	b.log.Debug("Message received",
		zap.String("guild_id", m.GuildID),
		zap.String("channel_id", m.ChannelID),
		zap.String("user_id", m.Author.ID))

	b.commands.Handle(s, m)
}
