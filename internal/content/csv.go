package content

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/scopecreep/projectgame/internal/model"
)

// Content file names expected under the content directory
const (
	spacesFile = "spaces.csv"
	cardsFile  = "cards.csv"
	diceFile   = "dice.csv"
)

// LoadFromDir parses the CSV content files under dir, caches the
// parsed rows in storage, and loads them into the repository
func (s *Service) LoadFromDir(ctx context.Context, dir string) error {
	spaces, err := parseSpacesFile(filepath.Join(dir, spacesFile))
	if err != nil {
		return fmt.Errorf("loading spaces: %w", err)
	}

	cards, err := parseCardsFile(filepath.Join(dir, cardsFile))
	if err != nil {
		return fmt.Errorf("loading cards: %w", err)
	}

	rows, err := parseDiceFile(filepath.Join(dir, diceFile))
	if err != nil {
		return fmt.Errorf("loading dice table: %w", err)
	}

	// Cache parsed rows so a restart can restore without the files
	if err := s.storage.SaveSpaces(ctx, spaces); err != nil {
		return err
	}
	if err := s.storage.SaveCards(ctx, cards); err != nil {
		return err
	}
	if err := s.storage.SaveDiceRows(ctx, rows); err != nil {
		return err
	}

	return s.load(spaces, cards, rows)
}

// spaces.csv columns:
// name,visit_type,kind,next_spaces,requires_dice,draw_card_type,draw_card_count,money_delta,time_delta,prompt
func parseSpacesFile(path string) ([]model.Space, error) {
	records, err := readCSV(path, 10)
	if err != nil {
		return nil, err
	}

	spaces := make([]model.Space, 0, len(records))
	for i, rec := range records {
		visit, err := parseVisitType(rec[1])
		if err != nil {
			return nil, rowError(path, i, err)
		}

		space := model.Space{
			Name:  model.SpaceName(rec[0]),
			Visit: visit,
			Kind:  model.SpaceKindNormal,
		}

		switch rec[2] {
		case "start":
			space.Kind = model.SpaceKindStart
		case "finish":
			space.Kind = model.SpaceKindFinish
		case "", "normal":
		default:
			return nil, rowError(path, i, fmt.Errorf("unknown space kind %q", rec[2]))
		}

		// next_spaces is a |-separated list; empty means end of path
		// or dice-dependent movement
		if rec[3] != "" {
			for _, name := range strings.Split(rec[3], "|") {
				space.NextSpaces = append(space.NextSpaces, model.SpaceName(strings.TrimSpace(name)))
			}
		}

		space.RequiresDice = rec[4] == "true" || rec[4] == "1"

		if rec[5] != "" {
			t := model.CardType(rec[5])
			if !model.ValidCardType(t) {
				return nil, rowError(path, i, fmt.Errorf("unknown card type %q", rec[5]))
			}
			space.Effect.DrawCardType = &t
			space.Effect.DrawCardCount = 1
		}
		if rec[6] != "" {
			count, err := strconv.Atoi(rec[6])
			if err != nil {
				return nil, rowError(path, i, err)
			}
			space.Effect.DrawCardCount = count
		}

		space.Effect.MoneyDelta, err = parseOptionalInt(rec[7])
		if err != nil {
			return nil, rowError(path, i, err)
		}
		space.Effect.TimeDelta, err = parseOptionalInt(rec[8])
		if err != nil {
			return nil, rowError(path, i, err)
		}
		space.Effect.Prompt = rec[9]

		spaces = append(spaces, space)
	}

	return spaces, nil
}

// cards.csv columns:
// id,type,name,description,money_delta,time_delta,loan_amount,investment_amount,work_cost
func parseCardsFile(path string) ([]model.Card, error) {
	records, err := readCSV(path, 9)
	if err != nil {
		return nil, err
	}

	cards := make([]model.Card, 0, len(records))
	for i, rec := range records {
		cardType := model.CardType(rec[1])
		if !model.ValidCardType(cardType) {
			return nil, rowError(path, i, fmt.Errorf("unknown card type %q", rec[1]))
		}

		card := model.Card{
			ID:          model.CardID(rec[0]),
			Type:        cardType,
			Name:        rec[2],
			Description: rec[3],
		}

		optional := []struct {
			value string
			field **int
		}{
			{rec[4], &card.MoneyDelta},
			{rec[5], &card.TimeDelta},
			{rec[6], &card.LoanAmount},
			{rec[7], &card.InvestmentAmount},
			{rec[8], &card.WorkCost},
		}
		for _, opt := range optional {
			parsed, err := parseOptionalInt(opt.value)
			if err != nil {
				return nil, rowError(path, i, err)
			}
			*opt.field = parsed
		}

		cards = append(cards, card)
	}

	return cards, nil
}

// dice.csv columns: space,visit_type,roll,destination
func parseDiceFile(path string) ([]model.DiceRow, error) {
	records, err := readCSV(path, 4)
	if err != nil {
		return nil, err
	}

	rows := make([]model.DiceRow, 0, len(records))
	for i, rec := range records {
		visit, err := parseVisitType(rec[1])
		if err != nil {
			return nil, rowError(path, i, err)
		}

		roll, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, rowError(path, i, err)
		}
		if roll < 1 || roll > 6 {
			return nil, rowError(path, i, model.ErrInvalidRoll)
		}

		rows = append(rows, model.DiceRow{
			Space:       model.SpaceName(rec[0]),
			Visit:       visit,
			Roll:        roll,
			Destination: model.SpaceName(rec[3]),
		})
	}

	return rows, nil
}

// readCSV reads all data records from a CSV file, skipping the header
// row and validating the column count
func readCSV(path string, columns int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = columns
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func parseVisitType(value string) (model.VisitType, error) {
	switch model.VisitType(value) {
	case model.VisitFirst:
		return model.VisitFirst, nil
	case model.VisitSubsequent:
		return model.VisitSubsequent, nil
	default:
		return "", fmt.Errorf("unknown visit type %q", value)
	}
}

func parseOptionalInt(value string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func rowError(path string, row int, err error) error {
	// row is 0-based over data records; +2 accounts for the header
	return fmt.Errorf("%s row %d: %w", filepath.Base(path), row+2, err)
}
