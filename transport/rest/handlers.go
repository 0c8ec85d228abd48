package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/sosgame/internal/apperror"
	"github.com/rocketscienceinc/sosgame/internal/entity"
)

type recordService interface {
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, name string) (*entity.GameRecord, error)
}

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	ListRecords(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
}

type handlers struct {
	logger  *slog.Logger
	records recordService
}

func NewHandlers(logger *slog.Logger, records recordService) Handlers {
	return &handlers{
		logger:  logger.With("component", "rest-handlers"),
		records: records,
	}
}

type listResponse struct {
	Records []string `json:"records"`
}

type moveResponse struct {
	Mover  string `json:"mover"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Letter string `json:"letter"`
}

type recordResponse struct {
	Name        string         `json:"name"`
	Mode        string         `json:"mode"`
	BoardSize   int            `json:"board_size"`
	FirstKind   string         `json:"first_kind"`
	SecondKind  string         `json:"second_kind"`
	ScoreFirst  int            `json:"score_first"`
	ScoreSecond int            `json:"score_second"`
	Status      string         `json:"status"`
	Moves       []moveResponse `json:"moves"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ListRecords")

	names, err := that.records.List(r.Context())
	if err != nil {
		log.Error("failed to list records", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list records"})
		return
	}

	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, listResponse{Records: names})
}

// GetRecord - returns a decoded record, or the stored text with ?format=raw.
func (that *handlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetRecord")

	name := chi.URLParam(r, "name")

	record, err := that.records.Load(r.Context(), name)
	if errors.Is(err, apperror.ErrNoRecord) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "record not found"})
		return
	}
	if err != nil {
		log.Error("failed to load record", "record", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load record"})
		return
	}

	if r.URL.Query().Get("format") == "raw" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(record.Encode())
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponse(name, record))
}

func toRecordResponse(name string, record *entity.GameRecord) recordResponse {
	mode := "general"
	if record.Header.Simple {
		mode = "simple"
	}

	moves := make([]moveResponse, 0, len(record.Moves))
	for _, move := range record.Moves {
		moves = append(moves, moveResponse{
			Mover:  move.Mover.String(),
			Row:    move.Row,
			Col:    move.Col,
			Letter: move.Letter.String(),
		})
	}

	return recordResponse{
		Name:        name,
		Mode:        mode,
		BoardSize:   record.Header.BoardSize,
		FirstKind:   record.Header.FirstKind.String(),
		SecondKind:  record.Header.SecondKind.String(),
		ScoreFirst:  record.FinalScoreFirst,
		ScoreSecond: record.FinalScoreSecond,
		Status:      record.Status.String(),
		Moves:       moves,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
