package ansii

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"quadropong/internal/game"
)

type ANSI string

const (
	reset       ANSI = "\033[0m"
	bold        ANSI = "\033[1m"
	red         ANSI = "\033[31m"
	green       ANSI = "\033[32m"
	yellow      ANSI = "\033[33m"
	blue        ANSI = "\033[34m"
	purple      ANSI = "\033[35m"
	cyan        ANSI = "\033[36m"
	white       ANSI = "\033[37m"
	clearScreen ANSI = "\033[2J"
	hideCursor  ANSI = "\033[?25l"
	showCursor  ANSI = "\033[?25h"
)

type style struct {
	Reset ANSI
	Bold  ANSI
}

type color struct {
	Red    ANSI
	Green  ANSI
	Yellow ANSI
	Blue   ANSI
	Purple ANSI
	Cyan   ANSI
	White  ANSI
}

type screen struct {
	ClearScreen ANSI
	HideCursor  ANSI
	ShowCursor  ANSI
}

var (
	Styles = style{Reset: reset, Bold: bold}
	Colors = color{Red: red, Green: green, Yellow: yellow, Blue: blue, Purple: purple, Cyan: cyan, White: white}
	Screen = screen{ClearScreen: clearScreen, HideCursor: hideCursor, ShowCursor: showCursor}
)

func GetTermSize() (width int, height int) {
	fd := int(os.Stdout.Fd())
	width, height, err := term.GetSize(fd)
	if err != nil {
		return 80, 24
	}
	return width, height
}

func MakeTermRaw() (*term.State, error) {
	return term.MakeRaw(int(os.Stdin.Fd()))
}

func RestoreTerm(prev *term.State) error {
	return term.Restore(int(os.Stdin.Fd()), prev)
}

func (s screen) PlaceCursor(x, y int) ANSI {
	return ANSI(fmt.Sprintf("\033[%d;%dH", y, x))
}

// Character grid the square board is painted onto. Columns are doubled
// because terminal cells are roughly twice as tall as they are wide.
const (
	boardCols = 41
	boardRows = 21
)

// DrawBoard renders one frame of the board. ownSide's paddle is drawn at
// ownPos (the predicted position) instead of the snapshot's.
func DrawBoard(snap game.Snapshot, ownSide game.Side, ownPos float32) string {
	grid := make([][]string, boardRows)
	for y := range grid {
		grid[y] = make([]string, boardCols)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	for _, side := range game.Sides {
		p := snap.Paddles[side]
		if !p.Occupied {
			continue
		}
		pos := p.Pos
		col := string(white)
		if side == ownSide {
			pos = ownPos
			col = string(cyan)
		}
		drawPaddle(grid, side, pos, col)
	}

	bx := cellX(snap.BallPos.X)
	by := cellY(snap.BallPos.Y)
	grid[by][bx] = string(yellow) + "●" + string(reset)

	var b strings.Builder
	b.WriteString(string(clearScreen))
	b.WriteString(string(Screen.PlaceCursor(1, 1)))
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\r\n")
	}

	b.WriteString(fmt.Sprintf("\r\n  north %d   south %d   east %d   west %d",
		snap.Scores[game.North], snap.Scores[game.South],
		snap.Scores[game.East], snap.Scores[game.West]))

	switch snap.Phase {
	case game.PhaseLobby:
		b.WriteString("\r\n  waiting for players, press r when ready")
	case game.PhaseFinished:
		b.WriteString("\r\n  game over")
	default:
		if snap.Frozen {
			b.WriteString("\r\n  serve incoming...")
		} else {
			b.WriteString("\r\n")
		}
	}
	return b.String()
}

func drawPaddle(grid [][]string, side game.Side, pos float32, col string) {
	half := game.PaddleLength / 2
	block := col + "█" + string(reset)
	if side.Horizontal() {
		row := 0
		if side == game.South {
			row = boardRows - 1
		}
		for x := cellX(pos - half); x <= cellX(pos+half); x++ {
			grid[row][x] = block
		}
	} else {
		colIdx := 0
		if side == game.East {
			colIdx = boardCols - 1
		}
		for y := cellY(pos - half); y <= cellY(pos+half); y++ {
			grid[y][colIdx] = block
		}
	}
}

func cellX(v float32) int {
	return clampCell(int(v/game.BoardSize*float32(boardCols-1)), boardCols-1)
}

func cellY(v float32) int {
	return clampCell(int(v/game.BoardSize*float32(boardRows-1)), boardRows-1)
}

func clampCell(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
