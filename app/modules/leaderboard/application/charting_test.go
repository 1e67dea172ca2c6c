package leaderboardservice

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestGenerateSportBreakdownChart(t *testing.T) {
	stats := tipdomain.UserStats{
		TotalTips: 7,
		SportBreakdown: []tipdomain.SportStats{
			{Sport: tipdomain.SportFootball, Count: 4, WinRate: 50},
			{Sport: tipdomain.SportTennis, Count: 3, WinRate: 67},
		},
	}

	png, err := GenerateSportBreakdownChart(stats, DefaultPalette)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "expected PNG output")
}

func TestGenerateSportBreakdownChartNoData(t *testing.T) {
	png, err := GenerateSportBreakdownChart(tipdomain.UserStats{}, DefaultPalette)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "expected placeholder PNG")
}
