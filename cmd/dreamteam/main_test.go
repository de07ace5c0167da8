package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const players = `role,team,name,credits,points
WK,SRH,Klaasen,9.5,52
WK,RR,Samson,9.0,48
BAT,SRH,Head,10,61
BAT,RR,Jaiswal,9.5,55
BAT,RR,Buttler,9,50
BAT,SRH,Markram,8.5,38
AR,SRH,Abhishek,9,58
AR,RR,Ashwin,8.5,42
AR,SRH,Shahbaz,7,30
BOWL,SRH,Cummins,9,45
BOWL,RR,Boult,9,44
BOWL,SRH,Bhuvneshwar,8.5,40
BOWL,RR,Chahal,8.5,41
BOWL,RR,Avesh,8,33
BOWL,SRH,Natarajan,8,36
`

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	playerPath := filepath.Join(dir, "players.csv")
	require.NoError(t, os.WriteFile(playerPath, []byte(players), 0o644))
	templatePath := filepath.Join(dir, "templates.yaml")
	require.NoError(t, os.WriteFile(templatePath, []byte("- WK: 1\n  BAT: 3\n  AR: 2\n  BOWL: 5\n"), 0o644))

	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetArgs([]string{
		"build",
		"--players", playerPath,
		"--templates", templatePath,
		"--top", "2",
		"--require", "Head,Boult",
		"--show-pool",
		"--log-level", "error",
	})
	require.NoError(t, Cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "Pool: SRH vs RR, 15 players")
	assert.Contains(t, text, "Top rosters by points")
	assert.Contains(t, text, "Most credits left, best points first")
	assert.Contains(t, text, "Rosters with Head, Boult")
	assert.Contains(t, text, "1-3-2-5")
}
