package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/bradykim7/mealroulette/internal/selection"
	"github.com/bwmarrin/discordgo"
)

const (
	colorMeal       = 0xFF9900 // orange
	colorRestaurant = 0x3366FF // blue
	colorInfo       = 0x00FF00 // green
)

func suggestionEmbed(title string, s *models.Suggestion, username string) *discordgo.MessageEmbed {
	item := s.Item()
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("How about **%s**?", item.ItemName()),
		Color:       colorMeal,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Requested by " + username,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	var cuisine string
	var tags []string
	var price int
	switch {
	case s.Meal != nil:
		cuisine, tags, price = s.Meal.Cuisine, s.Meal.Tags, s.Meal.PriceRange
	case s.Restaurant != nil:
		embed.Color = colorRestaurant
		cuisine, tags, price = s.Restaurant.Cuisine, s.Restaurant.Tags, s.Restaurant.PriceRange
		if s.Restaurant.Rating != nil {
			embed.Fields = append(embed.Fields, inlineField("Rating", fmt.Sprintf("%.1f / 5", *s.Restaurant.Rating)))
		}
		if s.Restaurant.Address != "" {
			embed.Fields = append(embed.Fields, inlineField("Address", s.Restaurant.Address))
		}
	}

	embed.Fields = append(embed.Fields, inlineField("Type", string(s.Type)))
	if cuisine != "" {
		embed.Fields = append(embed.Fields, inlineField("Cuisine", cuisine))
	}
	if price > 0 {
		embed.Fields = append(embed.Fields, inlineField("Price", strings.Repeat("$", price)))
	}
	if item.Favorite() {
		embed.Fields = append(embed.Fields, inlineField("Favorite", "★"))
	}
	if len(tags) > 0 {
		embed.Fields = append(embed.Fields, inlineField("Tags", "#"+strings.Join(tags, " #")))
	}
	if s.MealTime != "" {
		embed.Fields = append(embed.Fields, inlineField("Meal time", string(s.MealTime)))
	}
	return embed
}

func suggestionListEmbed(title string, suggestions []*models.Suggestion) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(suggestions))
	for i, s := range suggestions {
		lines = append(lines, fmt.Sprintf("%d. **%s** (%s)", i+1, s.Item().ItemName(), s.Type))
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: strings.Join(lines, "\n"),
		Color:       colorInfo,
	}
}

func statsEmbed(stats *selection.Stats) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Your picks over the last %d days", stats.Days),
		Description: fmt.Sprintf("%d picks: %d meals, %d restaurants",
			stats.Total, stats.ByType[models.ItemTypeMeal], stats.ByType[models.ItemTypeRestaurant]),
		Color: colorInfo,
	}

	if len(stats.MostSelected) > 0 {
		lines := make([]string, 0, len(stats.MostSelected))
		for i, f := range stats.MostSelected {
			lines = append(lines, fmt.Sprintf("%d. %s ×%d", i+1, f.ItemName, f.Count))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Most picked",
			Value: strings.Join(lines, "\n"),
		})
	}
	return embed
}

func inlineField(name, value string) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
}
