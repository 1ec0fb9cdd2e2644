package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bradykim7/mealroulette/internal/models"
	"github.com/bradykim7/mealroulette/internal/selection"
)

// parsedArgs holds the recognised parts of a command line:
//
//	meal|restaurant   pin the pool
//	#tag              require a tag
//	key=value         cuisine, price, rating, days
//	fav               favorites only
//
// Anything else is collected as free text.
type parsedArgs struct {
	opts   selection.Options
	rating *float64
	text   []string
}

func parseArgs(args []string, defaultExcludeDays int) (*parsedArgs, error) {
	return parse(args, defaultExcludeDays, true)
}

// parseItemArgs parses the arguments of an add command, where type words
// are part of the name
func parseItemArgs(args []string) (*parsedArgs, error) {
	return parse(args, 0, false)
}

func parse(args []string, defaultExcludeDays int, typeWords bool) (*parsedArgs, error) {
	p := &parsedArgs{opts: selection.DefaultOptions()}
	p.opts.ExcludeRecentDays = defaultExcludeDays

	for _, arg := range args {
		lower := strings.ToLower(arg)

		if t, err := models.ParseItemType(lower); typeWords && err == nil && t != "" {
			p.opts.Type = t
			continue
		}
		if strings.HasPrefix(arg, "#") && len(arg) > 1 {
			p.opts.Filters.Tags = append(p.opts.Filters.Tags, arg[1:])
			continue
		}
		if lower == "fav" || lower == "favorites" {
			p.opts.Filters.FavoritesOnly = true
			continue
		}

		key, value, isPair := strings.Cut(arg, "=")
		if !isPair {
			p.text = append(p.text, arg)
			continue
		}
		if err := p.setOption(strings.ToLower(key), value); err != nil {
			return nil, err
		}
	}

	p.opts.Filters.Tags = models.NormalizeTags(p.opts.Filters.Tags)
	return p, nil
}

func (p *parsedArgs) setOption(key, value string) error {
	switch key {
	case "cuisine":
		p.opts.Filters.Cuisine = value
	case "price":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 4 {
			return fmt.Errorf("price must be between 1 and 4")
		}
		p.opts.Filters.PriceRange = n
	case "rating":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 5 {
			return fmt.Errorf("rating must be between 0 and 5")
		}
		p.opts.Filters.MinRating = f
		p.rating = &f
	case "days":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > selection.MaxExcludeRecentDays {
			return fmt.Errorf("days must be between 0 and %d", selection.MaxExcludeRecentDays)
		}
		p.opts.ExcludeRecentDays = n
	default:
		return fmt.Errorf("unknown option %q", key)
	}
	return nil
}

// name joins the free text words
func (p *parsedArgs) name() string {
	return strings.Join(p.text, " ")
}

// count reads the first free text word as a number
func (p *parsedArgs) count(fallback int) int {
	if len(p.text) == 0 {
		return fallback
	}
	n, err := strconv.Atoi(p.text[0])
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
