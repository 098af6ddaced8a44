package models

import "strconv"

// Notes is the note-count breakdown of one chart. The JSON tags match the
// catalog document schema.
type Notes struct {
	Total int `json:"total"`
	Tap   int `json:"tap"`
	Hold  int `json:"hold"`
	Slide int `json:"slide"`
	Touch int `json:"touch"`
	Break int `json:"break"`
}

// Count returns the total note count, summing the breakdown when the catalog
// omits the total field.
func (n Notes) Count() int {
	if n.Total == 0 && n.Tap != 0 {
		return n.Tap + n.Hold + n.Slide + n.Touch + n.Break
	}
	return n.Total
}

// MaxDXScore is the maximum DX score achievable on the chart: 3 per note.
func (n Notes) MaxDXScore() int {
	return n.Count() * 3
}

// SongDifficulty is one difficulty tier of a song as declared by the catalog.
type SongDifficulty struct {
	LevelValue   float64    `json:"level_value"`
	LevelLabel   string     `json:"level"`
	Difficulty   Difficulty `json:"difficulty"`
	NoteDesigner string     `json:"note_designer"`
	Version      int        `json:"version"`
	Notes        Notes      `json:"notes"`
}

// SongDifficulties groups a song's charts by category.
type SongDifficulties struct {
	Standard []SongDifficulty `json:"standard"`
	Deluxe   []SongDifficulty `json:"dx"`
}

// ForCategory returns the chart list for the given category. Utage charts are
// not part of the per-tier difficulty model.
func (d SongDifficulties) ForCategory(cat SongCategory) []SongDifficulty {
	switch cat {
	case CategoryStandard:
		return d.Standard
	case CategoryDeluxe:
		return d.Deluxe
	default:
		return nil
	}
}

// Song is one catalog entry. The ID uses the catalog's compact numbering.
type Song struct {
	ID           int              `json:"id"`
	Title        string           `json:"title"`
	Artist       string           `json:"artist"`
	BPM          int              `json:"bpm"`
	Genre        string           `json:"genre"`
	Version      int              `json:"version"`
	Difficulties SongDifficulties `json:"difficulties"`
}

// Difficulty returns the chart for (category, tier), or nil when the song has
// no such chart.
func (s *Song) Difficulty(cat SongCategory, tier Difficulty) *SongDifficulty {
	charts := s.Difficulties.ForCategory(cat)
	for i := range charts {
		if charts[i].Difficulty == tier {
			return &charts[i]
		}
	}
	return nil
}

// SongList is the full catalog document.
type SongList struct {
	Songs []Song `json:"songs"`
}

// FindByCompactID looks a song up by its catalog (compact) id.
func (l *SongList) FindByCompactID(id int) *Song {
	for i := range l.Songs {
		if l.Songs[i].ID == id {
			return &l.Songs[i]
		}
	}
	return nil
}

// LevelLabelFor derives the display label from a level value: the fractional
// part above 0.6 marks a "+" chart (e.g. 13.7 -> "13+", 13.5 -> "13").
func LevelLabelFor(levelValue float64) string {
	whole := int(levelValue)
	if levelValue-float64(whole) > 0.6 {
		return strconv.Itoa(whole) + "+"
	}
	return strconv.Itoa(whole)
}
