package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord(t *testing.T) {
	t.Run("Parses header, moves and trailer", func(t *testing.T) {
		// Given: a completed general game with two moves
		data := "false,4,Human,Automated,3,2,Completed\nBlue,0,0,S\nRed,1,1,O\n"

		// When: decoding it
		record, skipped, err := DecodeRecord([]byte(data))

		// Then: the header, both moves and the final scores are restored
		require.NoError(t, err)
		assert.Empty(t, skipped)
		assert.Equal(t, RecordHeader{Simple: false, BoardSize: 4, FirstKind: Human, SecondKind: Automated}, record.Header)
		require.Len(t, record.Moves, 2)
		assert.Equal(t, RecordMove{Mover: First, Row: 0, Col: 0, Letter: S}, record.Moves[0])
		assert.Equal(t, RecordMove{Mover: Second, Row: 1, Col: 1, Letter: O}, record.Moves[1])
		assert.Equal(t, 3, record.FinalScoreFirst)
		assert.Equal(t, 2, record.FinalScoreSecond)
		assert.Equal(t, StatusCompleted, record.Status)
	})

	t.Run("Skips a short move line and keeps parsing", func(t *testing.T) {
		// Given: a record whose second move line has only three fields
		data := "true,3,Human,Human,0,0,In Progress\nBlue,0,0,S\nRed,1,1\nBlue,2,2,S\n"

		// When: decoding it
		record, skipped, err := DecodeRecord([]byte(data))

		// Then: the bad line is reported and the others survive in order
		require.NoError(t, err)
		require.Len(t, skipped, 1)
		assert.Equal(t, 3, skipped[0].Line)
		assert.Equal(t, "Red,1,1", skipped[0].Text)
		assert.ErrorIs(t, skipped[0].Err, ErrMalformedMove)
		require.Len(t, record.Moves, 2)
		assert.Equal(t, 2, record.Moves[1].Row)
	})

	t.Run("Skips moves with bad letters, numbers or movers", func(t *testing.T) {
		data := "true,3,Human,Human,0,0,In Progress\nBlue,0,0,X\nRed,a,1,S\nGreen,1,1,S\nBlue,1,1,SO\n"

		record, skipped, err := DecodeRecord([]byte(data))

		require.NoError(t, err)
		assert.Len(t, skipped, 4)
		assert.Empty(t, record.Moves)
	})

	t.Run("Accepts Computer as the automated kind and CRLF line endings", func(t *testing.T) {
		data := "false,5,Computer,Human,0,0,Interrupted\r\nBlue,0,0,O\r\n"

		record, skipped, err := DecodeRecord([]byte(data))

		require.NoError(t, err)
		assert.Empty(t, skipped)
		assert.Equal(t, Automated, record.Header.FirstKind)
		assert.Equal(t, StatusInterrupted, record.Status)
		assert.Len(t, record.Moves, 1)
	})

	t.Run("Fails on a malformed header", func(t *testing.T) {
		cases := map[string]string{
			"empty":          "",
			"too few fields": "false,4,Human,Human,0,0\n",
			"bad bool":       "maybe,4,Human,Human,0,0,Completed\n",
			"bad size":       "false,four,Human,Human,0,0,Completed\n",
			"bad kind":       "false,4,Robot,Human,0,0,Completed\n",
			"bad score":      "false,4,Human,Human,x,0,Completed\n",
			"bad status":     "false,4,Human,Human,0,0,Done\n",
		}

		for name, data := range cases {
			t.Run(name, func(t *testing.T) {
				// When: decoding a record with a broken header
				record, _, err := DecodeRecord([]byte(data))

				// Then: ErrMalformedHeader is returned and no record is produced
				require.ErrorIs(t, err, ErrMalformedHeader)
				assert.Nil(t, record)
			})
		}
	})
}

func TestGameRecord_EncodeDecodeRoundTrip(t *testing.T) {
	t.Run("Record without moves", func(t *testing.T) {
		// Given: a fresh simple-mode record
		record := NewGameRecord(RecordHeader{Simple: true, BoardSize: 3, FirstKind: Human, SecondKind: Human})

		// When: encoding and decoding it
		decoded, skipped, err := DecodeRecord(record.Encode())

		// Then: nothing is lost
		require.NoError(t, err)
		assert.Empty(t, skipped)
		assert.Equal(t, record, decoded)
	})

	t.Run("Finalized record with moves", func(t *testing.T) {
		// Given: a general record with moves and a trailer
		record := NewGameRecord(RecordHeader{Simple: false, BoardSize: 6, FirstKind: Automated, SecondKind: Human})
		require.NoError(t, record.AddMove(RecordMove{Mover: First, Row: 5, Col: 0, Letter: S}))
		require.NoError(t, record.AddMove(RecordMove{Mover: Second, Row: 4, Col: 1, Letter: O}))
		require.NoError(t, record.AddMove(RecordMove{Mover: Second, Row: 3, Col: 2, Letter: S}))
		require.NoError(t, record.Finalize(StatusInterrupted, 0, 1))

		// When: encoding and decoding it
		decoded, _, err := DecodeRecord(record.Encode())

		// Then: header, order of moves and trailer are preserved
		require.NoError(t, err)
		assert.Equal(t, record, decoded)
	})
}

func TestGameRecord_Encode(t *testing.T) {
	record := NewGameRecord(RecordHeader{Simple: false, BoardSize: 4, FirstKind: Human, SecondKind: Automated})
	require.NoError(t, record.AddMove(RecordMove{Mover: First, Row: 0, Col: 1, Letter: S}))

	assert.Equal(t, "false,4,Human,Automated,0,0,In Progress\nBlue,0,1,S\n", string(record.Encode()))
}

func TestGameRecord_Finalize(t *testing.T) {
	t.Run("Finalizes exactly once", func(t *testing.T) {
		// Given: an in-progress record
		record := NewGameRecord(RecordHeader{BoardSize: 4})

		// When: finalizing twice
		require.NoError(t, record.Finalize(StatusCompleted, 2, 1))
		err := record.Finalize(StatusInterrupted, 9, 9)

		// Then: the second call fails and the first trailer is kept
		require.ErrorIs(t, err, ErrRecordFinalized)
		assert.Equal(t, StatusCompleted, record.Status)
		assert.Equal(t, 2, record.FinalScoreFirst)
		assert.Equal(t, 1, record.FinalScoreSecond)
	})

	t.Run("Refuses moves after finalization", func(t *testing.T) {
		record := NewGameRecord(RecordHeader{BoardSize: 4})
		require.NoError(t, record.Finalize(StatusCompleted, 0, 0))

		err := record.AddMove(RecordMove{Mover: First, Row: 0, Col: 0, Letter: S})

		require.ErrorIs(t, err, ErrRecordFinalized)
		assert.Empty(t, record.Moves)
	})

	t.Run("Refuses In Progress as a final status", func(t *testing.T) {
		record := NewGameRecord(RecordHeader{BoardSize: 4})

		err := record.Finalize(StatusInProgress, 0, 0)

		require.ErrorIs(t, err, ErrInvalidFinalState)
		assert.False(t, record.IsFinalized())
	})
}
