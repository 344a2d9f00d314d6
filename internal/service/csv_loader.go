package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/fomastreeman/match-predictor/internal/models"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// CSVLoader reads historical matches from CSV files. Expected columns:
// date, home_team, away_team, home_goals, away_goals and optionally
// league, matched by header name in any order.
type CSVLoader struct {
	validator *DataValidator
	logger    *logrus.Logger
}

// NewCSVLoader creates a CSV match loader
func NewCSVLoader(logger *logrus.Logger) *CSVLoader {
	if logger == nil {
		logger = logrus.New()
	}
	return &CSVLoader{
		validator: NewDataValidator(logger),
		logger:    logger,
	}
}

// LoadFile reads, validates and sorts the matches in a CSV file,
// returning the clean history and the number of rejected rows
func (l *CSVLoader) LoadFile(path string) ([]models.Match, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	matches, rejected, err := l.Load(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.logger.WithFields(logrus.Fields{
		"path":     path,
		"loaded":   len(matches),
		"rejected": rejected,
	}).Info("Loaded match history")
	return matches, rejected, nil
}

// Load reads matches from CSV data
func (l *CSVLoader) Load(r io.Reader) ([]models.Match, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "home_team", "away_team", "home_goals", "away_goals"} {
		if _, ok := columns[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	parseRejected := 0
	var matches []models.Match
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		match, err := parseMatch(record, columns)
		if err != nil {
			parseRejected++
			l.logger.WithError(err).WithField("line", line).Warn("Rejecting unparseable match row")
			continue
		}
		matches = append(matches, match)
	}

	clean, rejected := l.validator.ValidateHistory(matches)
	return clean, parseRejected + rejected, nil
}

func parseMatch(record []string, columns map[string]int) (models.Match, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, err := parseDate(field("date"))
	if err != nil {
		return models.Match{}, err
	}
	homeGoals, err := strconv.Atoi(field("home_goals"))
	if err != nil {
		return models.Match{}, fmt.Errorf("bad home_goals %q: %w", field("home_goals"), err)
	}
	awayGoals, err := strconv.Atoi(field("away_goals"))
	if err != nil {
		return models.Match{}, fmt.Errorf("bad away_goals %q: %w", field("away_goals"), err)
	}

	return models.Match{
		Date:      date,
		HomeTeam:  field("home_team"),
		AwayTeam:  field("away_team"),
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
		League:    field("league"),
	}, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
