// Package leaguedata loads league, team and squad reference data from JSON
// files, either from a directory on disk or from the data set compiled into
// the binary.
package leaguedata

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"regexp"
	"slices"

	"github.com/albapepper/scoracle-sim/internal/model"
)

//go:embed data/*.json
var embedded embed.FS

// ErrInvalidLeague marks a league file that parsed but cannot be simulated.
var ErrInvalidLeague = errors.New("invalid league")

var idPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// --------------------------------------------------------------------------
// File format
// --------------------------------------------------------------------------

type leagueFile struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Country string     `json:"country"`
	LogoURL string     `json:"logoUrl"`
	Teams   []teamFile `json:"teams"`
}

type teamFile struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	ShortName string       `json:"shortName"`
	BadgeURL  string       `json:"badgeUrl"`
	Strength  strengthFile `json:"strength"`
	Players   []playerFile `json:"players"`
}

type strengthFile struct {
	Attack     int `json:"attack"`
	Midfield   int `json:"midfield"`
	Defense    int `json:"defense"`
	Goalkeeper int `json:"goalkeeper"`
}

type playerFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	ShirtNumber int    `json:"shirtNumber"`
	Rating      int    `json:"rating"`
}

// --------------------------------------------------------------------------
// Loading
// --------------------------------------------------------------------------

// Load reads every *.json league in dir, or the embedded data set when dir
// is empty. A file that fails to parse or validate is logged and skipped;
// Load only fails when no league survives.
func Load(dir string, logger *slog.Logger) ([]*model.League, error) {
	var fsys fs.FS
	root := "."
	if dir == "" {
		fsys, root = embedded, "data"
	} else {
		fsys = os.DirFS(dir)
	}
	return LoadFS(fsys, root, logger)
}

// LoadFS reads the *.json files directly under root in fsys, in name order.
func LoadFS(fsys fs.FS, root string, logger *slog.Logger) ([]*model.League, error) {
	names, err := fs.Glob(fsys, path.Join(root, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list league files: %w", err)
	}
	slices.Sort(names)

	var leagues []*model.League
	seen := make(map[string]bool)
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			logger.Error("Failed to read league file", "file", name, "error", err)
			continue
		}
		l, err := Parse(raw)
		if err != nil {
			logger.Error("Failed to load league", "file", name, "error", err)
			continue
		}
		if seen[l.ID] {
			logger.Error("Duplicate league id", "file", name, "league_id", l.ID)
			continue
		}
		seen[l.ID] = true
		leagues = append(leagues, l)
		logger.Info("Loaded league", "league_id", l.ID, "name", l.Name, "teams", l.TeamCount())
	}
	if len(leagues) == 0 {
		return nil, fmt.Errorf("load leagues from %s: no valid league files", root)
	}
	return leagues, nil
}

// Parse decodes and validates one league document.
func Parse(raw []byte) (*model.League, error) {
	var lf leagueFile
	if err := json.Unmarshal(raw, &lf); err != nil {
		return nil, fmt.Errorf("decode league: %w", err)
	}
	if !idPattern.MatchString(lf.ID) {
		return nil, fmt.Errorf("%w: league id %q", ErrInvalidLeague, lf.ID)
	}
	if len(lf.Teams) < 2 {
		return nil, fmt.Errorf("%w: %s has %d teams, need at least 2", ErrInvalidLeague, lf.ID, len(lf.Teams))
	}

	l := &model.League{ID: lf.ID, Name: lf.Name, Country: lf.Country, LogoURL: lf.LogoURL}
	teamIDs := make(map[string]bool, len(lf.Teams))
	for _, tf := range lf.Teams {
		if !idPattern.MatchString(tf.ID) || teamIDs[tf.ID] {
			return nil, fmt.Errorf("%w: %s team id %q", ErrInvalidLeague, lf.ID, tf.ID)
		}
		teamIDs[tf.ID] = true

		t := &model.Team{
			ID:        tf.ID,
			Name:      tf.Name,
			ShortName: tf.ShortName,
			BadgeURL:  tf.BadgeURL,
			Strength:  model.NewStrength(tf.Strength.Attack, tf.Strength.Midfield, tf.Strength.Defense, tf.Strength.Goalkeeper),
		}
		for _, pf := range tf.Players {
			pos, err := model.ParsePosition(pf.Position)
			if err != nil {
				return nil, fmt.Errorf("%w: %s player %s: %v", ErrInvalidLeague, tf.ID, pf.ID, err)
			}
			t.Players = append(t.Players, model.NewPlayer(pf.ID, pf.Name, pos, pf.ShirtNumber, pf.Rating))
		}
		l.Teams = append(l.Teams, t)
	}
	return l, nil
}

// Filter keeps the leagues named in ids, in the order of ids. An empty ids
// keeps everything. Unknown ids are reported in the error.
func Filter(leagues []*model.League, ids []string) ([]*model.League, error) {
	if len(ids) == 0 {
		return leagues, nil
	}
	byID := make(map[string]*model.League, len(leagues))
	for _, l := range leagues {
		byID[l.ID] = l
	}
	out := make([]*model.League, 0, len(ids))
	var missing []string
	for _, id := range ids {
		l, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, l)
	}
	if len(missing) > 0 {
		return out, fmt.Errorf("unknown leagues: %v", missing)
	}
	return out, nil
}
