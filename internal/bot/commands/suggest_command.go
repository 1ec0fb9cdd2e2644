package commands

import (
	"context"

	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/bradykim7/mealroulette/internal/selection"
)

const defaultDiverseCount = 3

const noCandidatesReply = "Nothing to suggest. Add some meals or restaurants, loosen the filters or try `days=0`."

// Suggester is the selection surface the chat commands use
type Suggester interface {
	GetRandomSuggestion(ctx context.Context, userID string, opts selection.Options) (*models.Suggestion, error)
	PickRandom(ctx context.Context, userID string, opts selection.Options) (*models.Suggestion, error)
	GetTimeBasedSuggestion(ctx context.Context, userID string, opts selection.Options) (*models.Suggestion, error)
	GetDiverseSuggestions(ctx context.Context, userID string, count int, opts selection.Options) ([]*models.Suggestion, error)
	Stats(ctx context.Context, userID string, days int) (*selection.Stats, error)
}

// suggestMode picks which selection operation a SuggestCommand runs
type suggestMode int

const (
	modePreview suggestMode = iota
	modePick
	modeTimeBased
)

// SuggestCommand answers with one random suggestion
type SuggestCommand struct {
	suggester   Suggester
	mode        suggestMode
	excludeDays int
}

// NewSuggestCommand previews a suggestion without recording it
func NewSuggestCommand(s Suggester, excludeDays int) *SuggestCommand {
	return &SuggestCommand{suggester: s, mode: modePreview, excludeDays: excludeDays}
}

// NewPickCommand picks a suggestion and records it in the user's history
func NewPickCommand(s Suggester, excludeDays int) *SuggestCommand {
	return &SuggestCommand{suggester: s, mode: modePick, excludeDays: excludeDays}
}

// NewNowCommand suggests something tagged for the current meal time
func NewNowCommand(s Suggester, excludeDays int) *SuggestCommand {
	return &SuggestCommand{suggester: s, mode: modeTimeBased, excludeDays: excludeDays}
}

func (c *SuggestCommand) Execute(ctx context.Context, req *Request) (*Reply, error) {
	args, err := parseArgs(req.Args, c.excludeDays)
	if err != nil {
		return &Reply{Content: err.Error()}, nil
	}

	var suggestion *models.Suggestion
	title := "Random pick"
	switch c.mode {
	case modePick:
		suggestion, err = c.suggester.PickRandom(ctx, req.UserID, args.opts)
		title = "Decided! Saved to your history"
	case modeTimeBased:
		suggestion, err = c.suggester.GetTimeBasedSuggestion(ctx, req.UserID, args.opts)
		title = "Right now"
	default:
		suggestion, err = c.suggester.GetRandomSuggestion(ctx, req.UserID, args.opts)
	}
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		return &Reply{Content: noCandidatesReply}, nil
	}
	if suggestion.MealTime != "" {
		title += " (" + string(suggestion.MealTime) + ")"
	}
	return &Reply{Embed: suggestionEmbed(title, suggestion, req.Username)}, nil
}

func (c *SuggestCommand) Help() string {
	switch c.mode {
	case modePick:
		return "pick [meal|restaurant] [#tag] [cuisine=x] [days=n] - pick and remember it"
	case modeTimeBased:
		return "now [meal|restaurant] - suggest something for the current meal time"
	default:
		return "suggest [meal|restaurant] [#tag] [cuisine=x] [price=n] [rating=n] [fav] [days=n] - random suggestion"
	}
}

// DiverseCommand answers with several distinct suggestions
type DiverseCommand struct {
	suggester   Suggester
	excludeDays int
}

// NewDiverseCommand creates the diverse suggestions command
func NewDiverseCommand(s Suggester, excludeDays int) *DiverseCommand {
	return &DiverseCommand{suggester: s, excludeDays: excludeDays}
}

func (c *DiverseCommand) Execute(ctx context.Context, req *Request) (*Reply, error) {
	args, err := parseArgs(req.Args, c.excludeDays)
	if err != nil {
		return &Reply{Content: err.Error()}, nil
	}

	suggestions, err := c.suggester.GetDiverseSuggestions(ctx, req.UserID, args.count(defaultDiverseCount), args.opts)
	if err != nil {
		return nil, err
	}
	if len(suggestions) == 0 {
		return &Reply{Content: noCandidatesReply}, nil
	}
	return &Reply{Embed: suggestionListEmbed("Some options", suggestions)}, nil
}

func (c *DiverseCommand) Help() string {
	return "diverse [n] [meal|restaurant] [#tag] - several different suggestions"
}

// StatsCommand summarises the user's recent picks
type StatsCommand struct {
	suggester Suggester
}

// NewStatsCommand creates the stats command
func NewStatsCommand(s Suggester) *StatsCommand {
	return &StatsCommand{suggester: s}
}

func (c *StatsCommand) Execute(ctx context.Context, req *Request) (*Reply, error) {
	args, err := parseArgs(req.Args, 0)
	if err != nil {
		return &Reply{Content: err.Error()}, nil
	}

	stats, err := c.suggester.Stats(ctx, req.UserID, args.count(0))
	if err != nil {
		return nil, err
	}
	return &Reply{Embed: statsEmbed(stats)}, nil
}

func (c *StatsCommand) Help() string {
	return "stats [days] - what you picked lately"
}
