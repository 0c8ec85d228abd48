package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/sosgame/internal/config"
	"github.com/rocketscienceinc/sosgame/internal/entity"
	"github.com/rocketscienceinc/sosgame/internal/sos"
)

const systemPrompt = `You are playing an SOS game. Make a move by analyzing the board.
Rules:
1. Place 'S' or 'O' on empty cells
2. Goal is to form SOS sequences
3. Simple mode (3x3): First SOS formation wins
4. General mode (4x4 to 8x8): Most SOS formations wins
Respond only with: row,column,letter
Example: 2,1,S`

var (
	ErrSuggestionStatus  = errors.New("suggestion service returned unexpected status")
	ErrNoSuggestedMove   = errors.New("no move found in suggestion")
	ErrIllegalSuggestion = errors.New("suggested move is not legal")
)

var suggestedMovePattern = regexp.MustCompile(`^\d+,\d+,[SO]$`)

type suggestionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type suggestionRequest struct {
	Model     string              `json:"model"`
	MaxTokens int                 `json:"max_tokens"`
	System    string              `json:"system"`
	Messages  []suggestionMessage `json:"messages"`
}

type suggestionResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type suggestionBotService struct {
	logger   *slog.Logger
	conf     config.Suggestion
	client   *http.Client
	mode     sos.Mode
	mover    entity.Mover
	fallback BotService
}

// NewSuggestionBotService - asks a remote suggestion service for a move and
// falls back to the given bot on any failure.
func NewSuggestionBotService(
	logger *slog.Logger,
	conf config.Suggestion,
	client *http.Client,
	mode sos.Mode,
	mover entity.Mover,
	fallback BotService,
) BotService {
	if client == nil {
		client = &http.Client{Timeout: conf.Timeout}
	}

	return &suggestionBotService{
		logger:   logger.With("component", "suggestion-bot", "mover", mover.String()),
		conf:     conf,
		client:   client,
		mode:     mode,
		mover:    mover,
		fallback: fallback,
	}
}

func (that *suggestionBotService) NextMove(ctx context.Context, board entity.Snapshot) (entity.Placement, error) {
	log := that.logger.With("method", "NextMove")

	move, err := that.suggest(ctx, board)
	if err != nil {
		log.Warn("suggestion failed, using fallback", "error", err)
		return that.fallback.NextMove(ctx, board)
	}

	return move, nil
}

func (that *suggestionBotService) suggest(ctx context.Context, board entity.Snapshot) (entity.Placement, error) {
	if that.conf.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, that.conf.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(suggestionRequest{
		Model:     that.conf.Model,
		MaxTokens: that.conf.MaxTokens,
		System:    systemPrompt,
		Messages:  []suggestionMessage{{Role: "user", Content: that.describe(board)}},
	})
	if err != nil {
		return entity.Placement{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.conf.URL, bytes.NewReader(body))
	if err != nil {
		return entity.Placement{}, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", that.conf.APIKey)
	req.Header.Set("anthropic-version", that.conf.APIVersion)

	resp, err := that.client.Do(req)
	if err != nil {
		return entity.Placement{}, fmt.Errorf("failed to call suggestion service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return entity.Placement{}, fmt.Errorf("%w: %d", ErrSuggestionStatus, resp.StatusCode)
	}

	var decoded suggestionResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return entity.Placement{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(decoded.Content) == 0 {
		return entity.Placement{}, ErrNoSuggestedMove
	}

	move, err := parseSuggestedMove(decoded.Content[0].Text)
	if err != nil {
		return entity.Placement{}, err
	}

	if !isLegal(board, move) {
		return entity.Placement{}, fmt.Errorf("%w: %d,%d,%s", ErrIllegalSuggestion, move.Row, move.Col, move.Letter)
	}

	that.logger.Debug("suggestion accepted", "reply", decoded.Content[0].Text)

	return move, nil
}

func (that *suggestionBotService) describe(board entity.Snapshot) string {
	var builder strings.Builder

	size := len(board)
	fmt.Fprintf(&builder, "Current board state (%dx%d):\n", size, size)

	for row, line := range board {
		for col, char := range line {
			if char == ' ' {
				char = '.'
			}
			builder.WriteRune(char)
			if col < size-1 {
				builder.WriteByte('|')
			}
		}
		builder.WriteByte('\n')

		if row < size-1 {
			builder.WriteString(strings.Repeat("-", size*2-1))
			builder.WriteByte('\n')
		}
	}

	if that.mode == sos.ModeSimple {
		builder.WriteString("\nGame mode: Simple (First SOS wins)")
	} else {
		builder.WriteString("\nGame mode: General (Most SOS wins)")
	}

	fmt.Fprintf(&builder, "\nYou are playing as: %s", that.mover)
	builder.WriteString("\nAnalyze the board and determine the best strategic move.\n")

	return builder.String()
}

// parseSuggestedMove - takes the first line of the reply shaped like "row,col,letter".
func parseSuggestedMove(text string) (entity.Placement, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !suggestedMovePattern.MatchString(line) {
			continue
		}

		parts := strings.Split(line, ",")

		row, err := strconv.Atoi(parts[0])
		if err != nil {
			return entity.Placement{}, fmt.Errorf("%w: %w", ErrNoSuggestedMove, err)
		}

		col, err := strconv.Atoi(parts[1])
		if err != nil {
			return entity.Placement{}, fmt.Errorf("%w: %w", ErrNoSuggestedMove, err)
		}

		letter, err := entity.ParseLetter(rune(parts[2][0]))
		if err != nil {
			return entity.Placement{}, fmt.Errorf("%w: %w", ErrNoSuggestedMove, err)
		}

		return entity.Placement{Row: row, Col: col, Letter: letter}, nil
	}

	return entity.Placement{}, ErrNoSuggestedMove
}

func isLegal(board entity.Snapshot, move entity.Placement) bool {
	if move.Row < 0 || move.Row >= len(board) {
		return false
	}

	return move.Col >= 0 && move.Col < len(board[move.Row]) &&
		board[move.Row][move.Col] == ' ' &&
		move.Letter.IsLetter()
}
