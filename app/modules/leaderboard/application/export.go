package leaderboardservice

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	leaderboarddomain "github.com/tipcircle/tipboard/app/modules/leaderboard/domain"
)

const exportSheet = "Leaderboard"

var exportHeader = []string{
	"Position", "Tipster", "Win Rate %", "Total Tips", "Verified", "Pending", "Wins", "Losses", "Avg Odds",
}

// Export renders the current leaderboard as an XLSX workbook.
func (s *LeaderboardService) Export(ctx context.Context, key leaderboarddomain.SortKey) ([]byte, error) {
	entries, err := s.Snapshot(ctx, key)
	if err != nil {
		return nil, err
	}
	return buildWorkbook(entries)
}

func buildWorkbook(entries []leaderboarddomain.Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, title); err != nil {
			return nil, err
		}
	}

	for rowIdx, entry := range entries {
		values := []interface{}{
			entry.Position,
			entry.DisplayName,
			entry.Stats.WinRate,
			entry.Stats.TotalTips,
			entry.Stats.VerifiedTips,
			entry.Stats.PendingTips,
			entry.Stats.TotalWins,
			entry.Stats.TotalLosses,
			entry.Stats.AverageOdds,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
