package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kitikazis/ELAC-Lectura/internal/app"
	"github.com/kitikazis/ELAC-Lectura/internal/domain"
)

// WSHandler runs one quiz session per websocket connection: validate the
// room code, stream reading-phase ticks, reveal the questions, collect
// answers, and report the score.
type WSHandler struct {
	codes       *app.RoomCodeManager
	readingTime time.Duration
	upgrader    websocket.Upgrader
}

func NewWSHandler(codes *app.RoomCodeManager, readingTime time.Duration) *WSHandler {
	return &WSHandler{
		codes:       codes,
		readingTime: readingTime,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Question int `json:"question"`
	Option   int `json:"option"`
}

type joinedPayload struct {
	Category       string `json:"category"`
	ReadingText    string `json:"readingText"`
	ReadingSeconds int    `json:"readingSeconds"`
	QuestionCount  int    `json:"questionCount"`
}

// studentQuestion hides the correct index and explanation until results.
type studentQuestion struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

type resultDetail struct {
	Question    string `json:"question"`
	Selected    int    `json:"selected"`
	Correct     int    `json:"correct"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

type resultsPayload struct {
	Score   domain.Score   `json:"score"`
	Details []resultDetail `json:"details"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and drives the join → read → answer → results flow.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	code := r.URL.Query().Get("code")
	if name == "" || code == "" {
		http.Error(w, "missing name or code", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	category, err := h.codes.Validate(r.Context(), code)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: joinErrorMessage(err)}})
		return
	}

	session := app.NewSession(name, category, h.readingTime)
	defer session.Close()

	updates, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	snapshot := session.Category()
	go func() {
		defer close(updatesDone)
		for {
			select {
			case ev, ok := <-updates:
				if !ok {
					return
				}
				msg := outboundMessage[any]{Type: ev.Type, Payload: ev}
				if ev.Type == app.EventPhase && ev.Phase == app.PhaseAnswering.String() {
					msg = outboundMessage[any]{Type: "questions", Payload: studentQuestions(snapshot.Questions)}
				}
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: joinedPayload{
		Category:       snapshot.Name,
		ReadingText:    snapshot.ReadingText,
		ReadingSeconds: session.RemainingReading(),
		QuestionCount:  len(snapshot.Questions),
	}}
	session.StartReading()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "skip":
			session.BeginAnswering()
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			if err := session.SelectAnswer(payload.Question, payload.Option); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "submit":
			score, err := session.Submit()
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "results", Payload: resultsPayload{
				Score:   score,
				Details: resultDetails(snapshot.Questions, session.Answers()),
			}}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func studentQuestions(questions []domain.Question) []studentQuestion {
	out := make([]studentQuestion, len(questions))
	for i, q := range questions {
		out[i] = studentQuestion{Text: q.Text, Options: q.Options}
	}
	return out
}

func resultDetails(questions []domain.Question, answers []int) []resultDetail {
	out := make([]resultDetail, len(questions))
	for i, q := range questions {
		out[i] = resultDetail{
			Question:    q.Text,
			Selected:    answers[i],
			Correct:     q.Correct,
			IsCorrect:   answers[i] == q.Correct,
			Explanation: q.Explanation,
		}
	}
	return out
}

// joinErrorMessage keeps the expired case distinct from an unknown code.
func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrExpired):
		return "room code has expired"
	case errors.Is(err, domain.ErrNotFound):
		return "invalid room code"
	}
	return err.Error()
}
