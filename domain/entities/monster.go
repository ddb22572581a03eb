package entities

// Monster is a catalog entry for a catchable species
type Monster struct {
	ID             int64   `db:"id"`
	NameEnglish    string  `db:"name_english"`
	NameJapanese   *string `db:"name_japanese"`
	ArtworkURL     *string `db:"artwork_url"`
	Category       string  `db:"category"`
	BaseWeight     int     `db:"base_weight"`
	CurrencyReward int64   `db:"currency_reward"`
	EvolvesTo      *int64  `db:"evolves_to"`
}

// Names returns all localized names a catch guess may match
func (m *Monster) Names() []string {
	names := []string{m.NameEnglish}
	if m.NameJapanese != nil && *m.NameJapanese != "" {
		names = append(names, *m.NameJapanese)
	}
	return names
}

// IsSpawnable reports whether the record is complete enough to spawn.
// Records missing a name or artwork are redrawn by the spawn service.
func (m *Monster) IsSpawnable() bool {
	return m.NameEnglish != "" && m.ArtworkURL != nil && *m.ArtworkURL != ""
}

// CanEvolve reports whether the species has an evolution target
func (m *Monster) CanEvolve() bool {
	return m.EvolvesTo != nil && *m.EvolvesTo > 0
}
