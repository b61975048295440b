// Package positionid implements position encoding/decoding for Reversi boards.
//
// A position ID is 22 base64 characters holding the 64 cells at 2 bits each,
// row-major from the top-left square, followed by ':' and the side to move
// ('b' or 'w'). Position IDs are compact enough to paste on a command line or
// send in a request body.
package positionid

import (
	"errors"
)

const (
	// Size is the number of rows and columns.
	Size = 8
	// KeyLength is the number of bytes in a PositionKey.
	KeyLength = Size * Size / 4
	// CellsLength is the length of the cell part of a position ID.
	CellsLength = 22
	// PositionIDLength is the full length including the side-to-move suffix.
	PositionIDLength = CellsLength + 2
)

// Cell codes. They match the engine's cell values.
const (
	Empty uint8 = 0
	Black uint8 = 1
	White uint8 = 2
)

// Side-to-move markers.
const (
	SideBlack byte = 'b'
	SideWhite byte = 'w'
)

// StartingPositionID is the ID of the standard opening position, Black to move.
const StartingPositionID = "AAAAAAAAAkABgAAAAAAAAA:b"

// Base64 alphabet used for position ID encoding
const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// Board is a grid of cell codes indexed [row][col].
type Board [Size][Size]uint8

// PositionKey is a compact binary representation of a board position.
// Cell i (row*8+col) occupies the two bits at 6-2*(i%4) of Data[i/4].
type PositionKey struct {
	Data [KeyLength]uint8
}

var (
	// ErrInvalidPositionID is returned for malformed position IDs.
	ErrInvalidPositionID = errors.New("invalid position ID")
	// ErrInvalidCell is returned when an ID decodes to a cell code of 3.
	ErrInvalidCell = errors.New("invalid cell code in position ID")
	// ErrInvalidSide is returned for a side marker other than 'b' or 'w'.
	ErrInvalidSide = errors.New("invalid side to move in position ID")
)

// MakePositionKey creates a compact key from a board position
func MakePositionKey(board Board) PositionKey {
	var key PositionKey
	for i := 0; i < Size*Size; i++ {
		code := board[i/Size][i%Size] & 0x03
		key.Data[i/4] |= code << (6 - 2*uint(i%4))
	}
	return key
}

// BoardFromKey reconstructs a board from a position key
func BoardFromKey(key PositionKey) Board {
	var board Board
	for i := 0; i < Size*Size; i++ {
		board[i/Size][i%Size] = (key.Data[i/4] >> (6 - 2*uint(i%4))) & 0x03
	}
	return board
}

// PositionIDFromKey generates the cell part of a position ID from a key
func PositionIDFromKey(key PositionKey) string {
	result := make([]byte, CellsLength)
	puch := key.Data[:]

	for i := 0; i < 5; i++ {
		result[i*4] = base64Chars[puch[0]>>2]
		result[i*4+1] = base64Chars[((puch[0]&0x03)<<4)|(puch[1]>>4)]
		result[i*4+2] = base64Chars[((puch[1]&0x0F)<<2)|(puch[2]>>6)]
		result[i*4+3] = base64Chars[puch[2]&0x3F]
		puch = puch[3:]
	}

	result[20] = base64Chars[puch[0]>>2]
	result[21] = base64Chars[(puch[0]&0x03)<<4]

	return string(result)
}

// PositionID generates a position ID from a board and side to move
func PositionID(board Board, side byte) string {
	return PositionIDFromKey(MakePositionKey(board)) + ":" + string(side)
}

// base64Decode decodes a base64 character to its value
func base64Decode(ch byte) uint8 {
	if ch >= 'A' && ch <= 'Z' {
		return ch - 'A'
	}
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 26
	}
	if ch >= '0' && ch <= '9' {
		return ch - '0' + 52
	}
	if ch == '+' {
		return 62
	}
	if ch == '/' {
		return 63
	}
	return 255
}

// KeyFromPositionID decodes the cell part of a position ID
func KeyFromPositionID(cells string) (PositionKey, error) {
	var key PositionKey

	if len(cells) != CellsLength {
		return key, ErrInvalidPositionID
	}

	ach := make([]uint8, CellsLength)
	for i := 0; i < CellsLength; i++ {
		ach[i] = base64Decode(cells[i])
		if ach[i] == 255 {
			return key, ErrInvalidPositionID
		}
	}

	pch := ach
	puchIdx := 0
	for i := 0; i < 5; i++ {
		key.Data[puchIdx] = (pch[0] << 2) | (pch[1] >> 4)
		key.Data[puchIdx+1] = (pch[1] << 4) | (pch[2] >> 2)
		key.Data[puchIdx+2] = (pch[2] << 6) | pch[3]
		puchIdx += 3
		pch = pch[4:]
	}
	if pch[1]&0x0F != 0 {
		// Non-canonical padding
		return key, ErrInvalidPositionID
	}
	key.Data[15] = (pch[0] << 2) | (pch[1] >> 4)

	return key, nil
}

// BoardFromPositionID decodes a position ID into a board and side to move.
// A bare cell string without the ":b"/":w" suffix is accepted with Black to
// move.
func BoardFromPositionID(posID string) (Board, byte, error) {
	var board Board

	cells, side := posID, SideBlack
	if len(posID) == PositionIDLength {
		if posID[CellsLength] != ':' {
			return board, 0, ErrInvalidPositionID
		}
		cells, side = posID[:CellsLength], posID[CellsLength+1]
	} else if len(posID) != CellsLength {
		return board, 0, ErrInvalidPositionID
	}

	if side != SideBlack && side != SideWhite {
		return board, 0, ErrInvalidSide
	}

	key, err := KeyFromPositionID(cells)
	if err != nil {
		return board, 0, err
	}

	board = BoardFromKey(key)
	if !CheckPosition(board) {
		return board, 0, ErrInvalidCell
	}

	return board, side, nil
}

// CheckPosition reports whether every cell holds a valid code
func CheckPosition(board Board) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if board[row][col] > White {
				return false
			}
		}
	}
	return true
}
