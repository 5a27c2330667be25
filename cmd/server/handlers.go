package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/casino"
	"github.com/xtding233/underworld-engine/internal/engine"
	"github.com/xtding233/underworld-engine/internal/minigame"
	"github.com/xtding233/underworld-engine/internal/state"
	"github.com/xtding233/underworld-engine/internal/stats"
)

type resp struct {
	Result    any              `json:"result,omitempty"`
	State     *state.GameState `json:"state,omitempty"`
	Err       string           `json:"err,omitempty"`
	Code      apperr.Code      `json:"code,omitempty"`
	Retryable bool             `json:"retryable,omitempty"`
}

type server struct {
	eng *engine.Engine
}

func newServer(eng *engine.Engine) *server {
	return &server{eng: eng}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /missions", s.handleMissions)
	mux.HandleFunc("GET /mission/chance", s.handleChoiceChance)
	mux.HandleFunc("POST /mission/start", s.handleStartRun)
	mux.HandleFunc("POST /mission/resolve", s.handleResolve)
	mux.HandleFunc("POST /mission/complication", s.handleComplication)
	mux.HandleFunc("POST /mission/minigame", s.handleBeginMinigame)
	mux.HandleFunc("POST /mission/ack", s.handleAcknowledge)
	mux.HandleFunc("POST /minigame/start", s.handleStartMinigame)
	mux.HandleFunc("POST /minigame/finish", s.handleFinishMinigame)
	mux.HandleFunc("POST /minigame/abandon", s.handleAbandonMinigame)
	mux.HandleFunc("POST /casino/roulette", s.handleRoulette)
	mux.HandleFunc("POST /casino/slots", s.handleSlots)
	mux.HandleFunc("POST /casino/race", s.handleRace)
	mux.HandleFunc("POST /casino/arm_wrestle", s.handleArmWrestle)
	mux.HandleFunc("POST /casino/blackjack/{action}", s.handleBlackjack)
	mux.HandleFunc("POST /casino/high_low/{action}", s.handleHighLow)
	mux.HandleFunc("POST /casino/russian_roulette", s.handleRussianRoulette)
	mux.HandleFunc("POST /casino/abandon", s.handleAbandon)
	mux.HandleFunc("GET /casino/edge", s.handleEdge)
	mux.HandleFunc("GET /prison", s.handleCustody)
	mux.HandleFunc("POST /prison/escape", s.handleEscape)
	mux.HandleFunc("POST /prison/pay", s.handlePay)
	mux.HandleFunc("POST /crew/hire", s.handleHire)
	mux.HandleFunc("POST /player/bonus", s.handleBonus)
	mux.HandleFunc("POST /player/contact", s.handleContact)
	return mux
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, false, ""
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return n, true, ""
}

func parseBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

// requireInt writes a 400 and returns false when key is missing or bad.
func requireInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	n, ok, msg := parseInt(r, key)
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return 0, false
	}
	if !ok {
		http.Error(w, "missing param "+key, http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidWager, apperr.CodeInsufficientFunds:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeIllegalTransition, apperr.CodeExhaustedAttempt, apperr.CodeGameOver, apperr.CodeRevealPending:
		return http.StatusConflict
	case apperr.CodeRemoteAuthorityFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// write renders result and the post-action state, or the error as a
// user message with its code.
func write(w http.ResponseWriter, result any, st *state.GameState, err error) {
	w.Header().Set("Content-Type", "application/json")
	out := resp{Result: result, State: st}
	if err != nil {
		code := apperr.CodeOf(err)
		out.Result = nil
		out.Err = apperr.UserMessage(err)
		out.Code = code
		out.Retryable = apperr.Retryable(err)
		w.WriteHeader(statusFor(code))
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	st := s.eng.Snapshot()
	write(w, nil, &st, nil)
}

func (s *server) handleMissions(w http.ResponseWriter, r *http.Request) {
	t := s.eng.Tuning()
	write(w, map[string]any{"missions": t.Missions, "street_events": t.StreetEvents}, nil, nil)
}

func (s *server) handleChoiceChance(w http.ResponseWriter, r *http.Request) {
	eff, err := s.eng.ChoiceChance(r.URL.Query().Get("choice"))
	write(w, eff, nil, err)
}

func (s *server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st, err := s.eng.StartRun(q.Get("id"), q.Get("approach"))
	write(w, st.Run, &st, err)
}

func (s *server) handleResolve(w http.ResponseWriter, r *http.Request) {
	step, st, err := s.eng.ResolveChoice(r.URL.Query().Get("choice"))
	write(w, step, &st, err)
}

func (s *server) handleComplication(w http.ResponseWriter, r *http.Request) {
	step, st, err := s.eng.ResolveComplication()
	write(w, step, &st, err)
}

func (s *server) handleBeginMinigame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.eng.BeginChoiceMinigame(r.URL.Query().Get("choice"))
	write(w, sess, nil, err)
}

func (s *server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	st, err := s.eng.AcknowledgeRun()
	write(w, nil, &st, err)
}

func (s *server) handleStartMinigame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.eng.StartMinigame(minigame.Kind(r.URL.Query().Get("kind")))
	write(w, sess, nil, err)
}

// handleFinishMinigame reads the attempt from a JSON body; offset_ms and
// taps may also be given as query params.
func (s *server) handleFinishMinigame(w http.ResponseWriter, r *http.Request) {
	var a minigame.Attempt
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid attempt", http.StatusBadRequest)
			return
		}
	}
	ms, ok, msg := parseInt(r, "offset_ms")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if ok {
		a.Offset = time.Duration(ms) * time.Millisecond
	}
	taps, ok, msg := parseInt(r, "taps")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if ok {
		a.Taps = taps
	}
	sig, st, err := s.eng.FinishMinigame(a)
	write(w, sig, &st, err)
}

func (s *server) handleAbandonMinigame(w http.ResponseWriter, r *http.Request) {
	sig, st, err := s.eng.AbandonMinigame()
	write(w, sig, &st, err)
}

func (s *server) handleRoulette(w http.ResponseWriter, r *http.Request) {
	bet, ok := requireInt(w, r, "bet")
	if !ok {
		return
	}
	n, _, _ := parseInt(r, "number")
	pick := casino.RoulettePick{Bet: casino.RouletteBet(r.URL.Query().Get("pick")), Number: n}
	spin, st, err := s.eng.PlayRoulette(pick, bet)
	write(w, spin, &st, err)
}

func (s *server) handleSlots(w http.ResponseWriter, r *http.Request) {
	bet, ok := requireInt(w, r, "bet")
	if !ok {
		return
	}
	spin, st, err := s.eng.PlaySlots(bet)
	write(w, spin, &st, err)
}

func (s *server) handleRace(w http.ResponseWriter, r *http.Request) {
	bet, ok := requireInt(w, r, "bet")
	if !ok {
		return
	}
	res, st, err := s.eng.PlayRace(bet)
	write(w, res, &st, err)
}

func (s *server) handleArmWrestle(w http.ResponseWriter, r *http.Request) {
	bet, ok := requireInt(w, r, "bet")
	if !ok {
		return
	}
	opponent, _, _ := parseInt(r, "opponent")
	res, st, err := s.eng.PlayArmWrestle(bet, opponent)
	write(w, res, &st, err)
}

func (s *server) handleBlackjack(w http.ResponseWriter, r *http.Request) {
	var (
		hand casino.Blackjack
		st   state.GameState
		err  error
	)
	switch r.PathValue("action") {
	case "deal":
		bet, ok := requireInt(w, r, "bet")
		if !ok {
			return
		}
		hand, st, err = s.eng.DealBlackjack(bet)
	case "hit":
		hand, st, err = s.eng.HitBlackjack()
	case "stand":
		hand, st, err = s.eng.StandBlackjack()
	case "double":
		hand, st, err = s.eng.DoubleBlackjack()
	default:
		http.Error(w, "unknown action", http.StatusNotFound)
		return
	}
	write(w, hand, &st, err)
}

func (s *server) handleHighLow(w http.ResponseWriter, r *http.Request) {
	switch r.PathValue("action") {
	case "start":
		bet, ok := requireInt(w, r, "bet")
		if !ok {
			return
		}
		g, st, err := s.eng.StartHighLow(bet)
		write(w, g, &st, err)
	case "guess":
		g, st, err := s.eng.GuessHighLow(casino.Guess(r.URL.Query().Get("guess")))
		write(w, g, &st, err)
	case "cashout":
		settle, st, err := s.eng.CashOutHighLow()
		write(w, settle, &st, err)
	default:
		http.Error(w, "unknown action", http.StatusNotFound)
	}
}

func (s *server) handleRussianRoulette(w http.ResponseWriter, r *http.Request) {
	bet, ok := requireInt(w, r, "bet")
	if !ok {
		return
	}
	rounds, ok, _ := parseInt(r, "rounds")
	if !ok {
		rounds = 1
	}
	res, st, err := s.eng.PlayRussianRoulette(r.Context(), bet, rounds)
	write(w, res, &st, err)
}

func (s *server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	st, err := s.eng.Abandon(casino.Kind(r.URL.Query().Get("game")))
	write(w, nil, &st, err)
}

// defaultEdgeTrials is used when the trials param is absent.
const defaultEdgeTrials = 20000

func (s *server) handleEdge(w http.ResponseWriter, r *http.Request) {
	bet, ok := requireInt(w, r, "bet")
	if !ok {
		return
	}
	trials, ok, _ := parseInt(r, "trials")
	if !ok {
		trials = defaultEdgeTrials
	}
	st, err := s.eng.SimulateEdge(casino.Kind(r.URL.Query().Get("game")), bet, trials)
	write(w, st, nil, err)
}

type custodyView struct {
	CountdownSeconds int             `json:"countdown_seconds"`
	ReleaseCost      int             `json:"release_cost"`
	EscapeChance     stats.Effective `json:"escape_chance"`
	EscapeOdds       int             `json:"escape_odds"`
}

func (s *server) handleCustody(w http.ResponseWriter, r *http.Request) {
	left, err := s.eng.Countdown()
	if err != nil {
		write(w, nil, nil, err)
		return
	}
	cost, err := s.eng.ReleaseCost()
	if err != nil {
		write(w, nil, nil, err)
		return
	}
	write(w, custodyView{
		CountdownSeconds: int(left.Seconds()),
		ReleaseCost:      cost,
		EscapeChance:     s.eng.EscapeChance(),
		EscapeOdds:       s.eng.EscapeOdds(),
	}, nil, nil)
}

func (s *server) handleEscape(w http.ResponseWriter, r *http.Request) {
	res, st, err := s.eng.Escape()
	write(w, res, &st, err)
}

func (s *server) handlePay(w http.ResponseWriter, r *http.Request) {
	paid, st, err := s.eng.PayRelease()
	write(w, map[string]int{"paid": paid}, &st, err)
}

func (s *server) handleHire(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	m, st, err := s.eng.HireCrew(q.Get("name"), stats.Role(q.Get("role")))
	write(w, m, &st, err)
}

func (s *server) handleBonus(w http.ResponseWriter, r *http.Request) {
	st, err := s.eng.ToggleBonus(r.URL.Query().Get("name"), parseBool(r, "active"))
	write(w, nil, &st, err)
}

func (s *server) handleContact(w http.ResponseWriter, r *http.Request) {
	st, err := s.eng.SetContact(parseBool(r, "active"))
	write(w, nil, &st, err)
}
