package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/stitts-dev/dfs-dreamteam/internal/optimizer"
)

// playerFields is the column layout of a player file: role,team,name,credits,points
const playerFields = 5

// LineError ties a parse failure to its line in the input
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// LoadPlayers reads a player file from disk
func LoadPlayers(path string, match optimizer.Match) ([]optimizer.Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open player file: %w", err)
	}
	defer f.Close()

	players, err := ReadPlayers(f, match)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return players, nil
}

// ReadPlayers parses one player per line. Blank lines, lines starting with #
// and a leading "role,team,..." header are skipped. When match names two
// teams, players from any other team are rejected.
func ReadPlayers(r io.Reader, match optimizer.Match) ([]optimizer.Player, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	checkTeams := match.Home != "" || match.Away != ""

	var players []optimizer.Player
	for first := true; ; first = false {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read player file: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if first && isHeader(record) {
			continue
		}
		if len(record) != playerFields {
			return nil, &LineError{Line: line, Err: fmt.Errorf("expected %d fields (role,team,name,credits,points), got %d", playerFields, len(record))}
		}

		p, err := parsePlayer(record)
		if err != nil {
			return nil, &LineError{Line: line, Err: err}
		}
		if checkTeams && !match.Has(p.Team) {
			return nil, &LineError{Line: line, Err: fmt.Errorf("%w: %q plays for %q", optimizer.ErrUnknownTeam, p.Name, p.Team)}
		}
		players = append(players, p)
	}

	if len(players) == 0 {
		return nil, errors.New("player file has no players")
	}
	return players, nil
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "role")
}

func parsePlayer(record []string) (optimizer.Player, error) {
	role, err := optimizer.ParseRole(record[0])
	if err != nil {
		return optimizer.Player{}, err
	}
	name := strings.TrimSpace(record[2])

	credits, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return optimizer.Player{}, &optimizer.ValidationError{Player: name, Field: "credits", Reason: fmt.Sprintf("%q is not a number", record[3])}
	}
	points, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
	if err != nil {
		return optimizer.Player{}, &optimizer.ValidationError{Player: name, Field: "points", Reason: fmt.Sprintf("%q is not a number", record[4])}
	}

	return optimizer.NewPlayer(role, record[1], name, credits, points)
}

// InferMatch takes the two teams from the players, in order of first appearance
func InferMatch(players []optimizer.Player) (optimizer.Match, error) {
	var teams []string
	for _, p := range players {
		if slices.Contains(teams, p.Team) {
			continue
		}
		teams = append(teams, p.Team)
	}
	if len(teams) != 2 {
		return optimizer.Match{}, fmt.Errorf("players must come from exactly two teams, found %d (%s)", len(teams), strings.Join(teams, ", "))
	}
	return optimizer.Match{Home: teams[0], Away: teams[1]}, nil
}

// ParseMatch reads "HOME,AWAY" or "HOME vs AWAY"
func ParseMatch(s string) (optimizer.Match, error) {
	if i := strings.Index(strings.ToLower(s), " vs "); i >= 0 && !strings.Contains(s, ",") {
		s = s[:i] + "," + s[i+len(" vs "):]
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return optimizer.Match{}, fmt.Errorf("teams must look like HOME,AWAY, got %q", s)
	}

	match := optimizer.Match{Home: strings.TrimSpace(parts[0]), Away: strings.TrimSpace(parts[1])}
	if err := match.Validate(); err != nil {
		return optimizer.Match{}, err
	}
	return match, nil
}
