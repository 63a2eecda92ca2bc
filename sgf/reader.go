package sgf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"termtoe/board"
	"termtoe/history"
)

// GameInfo holds metadata parsed from an SGF file header.
type GameInfo struct {
	FilePath  string
	FileName  string
	PlayerX   string
	PlayerO   string
	Date      string
	Result    string
	MoveCount int
}

// Finished reports whether the record carries a final result.
func (g GameInfo) Finished() bool {
	return g.Result != "" && g.Result != "?"
}

// ParseHeader reads an SGF file and extracts metadata from the root node.
func ParseHeader(filePath string) (*GameInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	content := string(data)
	props := parseProperties(content)
	if sz, ok := props["SZ"]; ok && sz != fmt.Sprint(board.Size) {
		return nil, fmt.Errorf("%s: board size %s is not supported", filePath, sz)
	}

	info := &GameInfo{
		FilePath:  filePath,
		FileName:  filepath.Base(filePath),
		PlayerX:   props["PB"],
		PlayerO:   props["PW"],
		Date:      props["DT"],
		Result:    props["RE"],
		MoveCount: countMoves(content),
	}

	return info, nil
}

// ReplayToEnd parses an SGF file and replays all moves to produce the final position.
func ReplayToEnd(filePath string) (board.Board, []history.Entry, error) {
	var log history.Log
	data, err := os.ReadFile(filePath)
	if err != nil {
		return board.Board{}, nil, err
	}

	content := string(data)
	props := parseProperties(content)
	for _, node := range parseNodes(content) {
		side, m, ok := parseMoveNode(node)
		if !ok {
			continue
		}
		by := props["PB"]
		if side == board.O {
			by = props["PW"]
		}
		log.Add(history.Entry{Move: m, Side: side, By: by})
	}

	b, err := log.Replay()
	if err != nil {
		return b, nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return b, log.Entries(), nil
}

// parseProperties extracts KEY[value] pairs from the root node of an SGF string.
func parseProperties(content string) map[string]string {
	props := make(map[string]string)

	// Find the root node: starts after "(;"
	start := strings.Index(content, "(;")
	if start == -1 {
		return props
	}
	start += 2 // skip "(;"

	// Root node ends at the next ";" or ")" outside a value
	end := len(content)
	for i := start; i < len(content); i++ {
		if content[i] == '[' {
			i = skipValue(content, i)
			continue
		}
		if content[i] == ';' || content[i] == ')' {
			end = i
			break
		}
	}

	extractProps(content[start:end], props)
	return props
}

// skipValue returns the index of the ']' closing the value opened at i.
func skipValue(content string, i int) int {
	i++
	for i < len(content) && content[i] != ']' {
		if content[i] == '\\' && i+1 < len(content) {
			i++ // skip escaped char
		}
		i++
	}
	return i
}

// extractProps parses KEY[value] pairs from the node string into the map.
func extractProps(node string, props map[string]string) {
	i := 0
	for i < len(node) {
		// Skip whitespace
		for i < len(node) && (node[i] == ' ' || node[i] == '\n' || node[i] == '\r' || node[i] == '\t') {
			i++
		}
		if i >= len(node) {
			break
		}

		// Read property identifier (uppercase letters)
		keyStart := i
		for i < len(node) && node[i] >= 'A' && node[i] <= 'Z' {
			i++
		}
		if i == keyStart {
			i++
			continue
		}
		key := node[keyStart:i]

		for i < len(node) && node[i] == '[' {
			end := skipValue(node, i)
			props[key] = unescape(node[i+1 : end]) // last value wins
			i = end + 1
		}
	}
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// countMoves counts the number of move nodes (;B[...] or ;W[...]) in the SGF.
func countMoves(content string) int {
	count := 0
	for _, node := range parseNodes(content) {
		if _, _, ok := parseMoveNode(node); ok {
			count++
		}
	}
	return count
}

// parseNodes returns all node strings after the root node.
func parseNodes(content string) []string {
	var nodes []string

	start := strings.Index(content, "(;")
	if start == -1 {
		return nodes
	}

	// Skip root node to find subsequent ";"
	i := start + 2
	for i < len(content) && content[i] != ';' {
		if content[i] == '[' {
			i = skipValue(content, i)
		}
		i++
	}

	for i < len(content) {
		if content[i] != ';' {
			i++
			continue
		}
		nodeStart := i
		i++
		for i < len(content) && content[i] != ';' && content[i] != ')' {
			if content[i] == '[' {
				i = skipValue(content, i)
			}
			i++
		}
		nodes = append(nodes, content[nodeStart:i])
	}

	return nodes
}

// parseMoveNode extracts side and move from a move node like ";B[bb]".
func parseMoveNode(node string) (board.Cell, board.Move, bool) {
	node = strings.TrimSpace(node)
	if len(node) < 2 || node[0] != ';' {
		return board.Empty, board.Invalid, false
	}

	side := board.X
	switch node[1] {
	case 'B':
	case 'W':
		side = board.O
	default:
		return board.Empty, board.Invalid, false
	}

	bracketStart := strings.Index(node, "[")
	bracketEnd := strings.Index(node, "]")
	if bracketStart == -1 || bracketEnd == -1 || bracketEnd <= bracketStart {
		return board.Empty, board.Invalid, false
	}

	coord := node[bracketStart+1 : bracketEnd]
	if len(coord) != 2 {
		return board.Empty, board.Invalid, false
	}

	m := board.Move{Row: int(coord[1]) - 'a', Col: int(coord[0]) - 'a'}
	if !m.InRange() {
		return board.Empty, board.Invalid, false
	}
	return side, m, true
}

// ListGames scans a directory for .sgf files and returns their parsed headers,
// sorted newest-first (by filename, which contains timestamps).
func ListGames(dir string) ([]GameInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var games []GameInfo
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sgf") {
			continue
		}
		info, err := ParseHeader(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		games = append(games, *info)
	}

	return games, nil
}
