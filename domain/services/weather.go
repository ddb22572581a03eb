package services

import (
	"math/rand"
	"sync"

	log "github.com/sirupsen/logrus"
)

// defaultBoostCategories are the categories weather rotation cycles through
var defaultBoostCategories = []string{
	"normal", "fire", "water", "grass", "electric", "flying", "poison", "dragon",
}

// Weather tracks each guild's rotating boost category. The current category
// makes matching spawn candidates weigh heavier in the draw.
type Weather struct {
	mu         sync.Mutex
	categories []string
	current    map[int64]string
}

// NewWeather creates a weather rotation over the default categories
func NewWeather() *Weather {
	return &Weather{
		categories: defaultBoostCategories,
		current:    make(map[int64]string),
	}
}

// CategoryFor returns the guild's current boost category, picking a random
// one on first use
func (w *Weather) CategoryFor(guildID int64) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if category, ok := w.current[guildID]; ok {
		return category
	}
	category := w.categories[rand.Intn(len(w.categories))]
	w.current[guildID] = category
	return category
}

// Rotate picks a fresh boost category for every known guild
func (w *Weather) Rotate() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for guildID := range w.current {
		next := w.categories[rand.Intn(len(w.categories))]
		w.current[guildID] = next
		log.WithFields(log.Fields{
			"guild_id": guildID,
			"category": next,
		}).Debug("Rotated boost category")
	}
}
