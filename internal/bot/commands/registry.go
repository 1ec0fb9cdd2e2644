package commands

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const commandTimeout = 5 * time.Second

// Request is one parsed chat command
type Request struct {
	UserID   string
	Username string
	Args     []string
}

// Reply is what a command answers with. Embed wins over Content when both are set.
type Reply struct {
	Content string
	Embed   *discordgo.MessageEmbed
}

// Command represents a bot command
type Command interface {
	Execute(ctx context.Context, req *Request) (*Reply, error)
	Help() string
}

// Registry manages all bot commands
type Registry struct {
	prefix   string
	commands map[string]Command
	log      *zap.Logger
}

// NewRegistry creates a new command registry
func NewRegistry(prefix string, log *zap.Logger) *Registry {
	return &Registry{
		prefix:   prefix,
		commands: make(map[string]Command),
		log:      log.Named("commands"),
	}
}

// Register registers a command under name and any aliases
func (r *Registry) Register(name string, cmd Command, aliases ...string) {
	for _, n := range append([]string{name}, aliases...) {
		r.commands[strings.ToLower(n)] = cmd
	}
	r.log.Info("Registered command", zap.String("name", name))
}

// Parse splits a message into a command name and arguments
func (r *Registry) Parse(content string) (string, []string, bool) {
	if !strings.HasPrefix(content, r.prefix) {
		return "", nil, false
	}

	parts := strings.Fields(strings.TrimPrefix(content, r.prefix))
	if len(parts) == 0 {
		return "", nil, false
	}
	return strings.ToLower(parts[0]), parts[1:], true
}

// Dispatch runs the command named in content. It reports false when content
// is not a known command.
func (r *Registry) Dispatch(ctx context.Context, content, userID, username string) (*Reply, bool) {
	name, args, found := r.Parse(content)
	if !found {
		return nil, false
	}
	if name == "help" {
		return &Reply{Content: r.help()}, true
	}

	cmd, found := r.commands[name]
	if !found {
		return nil, false
	}

	r.log.Info("Executing command",
		zap.String("command", name),
		zap.String("user_id", userID))

	reply, err := cmd.Execute(ctx, &Request{UserID: userID, Username: username, Args: args})
	if err != nil {
		r.log.Error("Command failed", zap.String("command", name), zap.Error(err))
		return &Reply{Content: "Something went wrong while running that command. Please try again."}, true
	}
	return reply, true
}

// Handle processes a message and sends the command's reply to its channel
func (r *Registry) Handle(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	reply, handled := r.Dispatch(ctx, m.Content, UserID(m.Author.ID), m.Author.Username)
	if !handled || reply == nil {
		return
	}

	var err error
	if reply.Embed != nil {
		_, err = s.ChannelMessageSendEmbed(m.ChannelID, reply.Embed)
	} else {
		_, err = s.ChannelMessageSend(m.ChannelID, reply.Content)
	}
	if err != nil {
		r.log.Error("Failed to send reply", zap.String("channel_id", m.ChannelID), zap.Error(err))
	}
}

// UserID namespaces a Discord account so it never collides with API users
func UserID(discordID string) string {
	return "discord:" + discordID
}

func (r *Registry) help() string {
	seen := make(map[Command]bool)
	lines := make([]string, 0, len(r.commands))
	for _, cmd := range r.commands {
		if seen[cmd] {
			continue
		}
		seen[cmd] = true
		lines = append(lines, r.prefix+cmd.Help())
	}
	sort.Strings(lines)
	return "**Commands**\n" + strings.Join(lines, "\n")
}
