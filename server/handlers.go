// server/handlers.go
package server

import (
	"crypto/subtle"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/wfunc/quizboard/game"
	"github.com/wfunc/quizboard/logger"
	"github.com/wfunc/quizboard/models"
	"github.com/wfunc/quizboard/questions"
	"github.com/wfunc/quizboard/services"
)

const uploadLimit = 1 << 20 // 1MiB per question upload

func securityHeaders(w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	// The page ships an inline stylesheet.
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
}

func (s *GameServer) handleIndex(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	securityHeaders(w)
	sess := s.currentSession(w, r)
	g := sess.Game

	scoreboard, err := s.scoreService.TopScoreboard(50)
	if err != nil {
		logger.Log.Errorf("Failed to read scoreboard: %v", err)
		http.Error(w, "scoreboard unavailable", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Players:        g.Players(),
		Turn:           g.Turn(),
		AwaitingAnswer: g.Phase() == game.PhaseAwaitingAnswer,
		LastRoll:       g.LastRoll(),
		Message:        g.Message(),
		BoardSize:      g.BoardSize(),
		QuestionsCount: g.Bank().Len(),
		Scoreboard:     scoreboard,
		Winner:         g.Winner(),
		Version:        ReleaseVersion,
	}
	if q, ok := g.CurrentQuestion(); ok {
		data.CurrentQuestion = q.Q
	}
	if p, ok := g.CurrentPlayer(); ok {
		data.CurrentPlayer = p.Name
	}

	renderPage(w, data)
}

func (s *GameServer) handleSetup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	securityHeaders(w)
	sess := s.currentSession(w, r)

	var names []string
	for i := 1; i <= s.cfg.Game.MaxPlayers; i++ {
		names = append(names, r.FormValue(fmt.Sprintf("name%d", i)))
	}

	sess.Game.Setup(names)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *GameServer) handleRoll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	securityHeaders(w)
	start := time.Now()
	sess := s.currentSession(w, r)

	before := sess.Game.Phase()
	sess.Game.Roll()
	if before == game.PhaseAwaitingRoll && sess.Game.Phase() == game.PhaseAwaitingAnswer {
		s.monitor.IncRolls()
	}

	s.monitor.ObserveRequestDuration(time.Since(start))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *GameServer) handleAnswer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	securityHeaders(w)
	start := time.Now()
	sess := s.currentSession(w, r)

	wasOver := sess.Game.Phase() == game.PhaseOver
	outcome, err := sess.Game.Answer(r.FormValue("answer"))
	if outcome != game.OutcomeIgnored {
		s.monitor.IncAnswer(outcome == game.OutcomeCorrect)
	}
	if !wasOver && sess.Game.Phase() == game.PhaseOver {
		s.monitor.IncGamesCompleted()
	}
	if err != nil {
		// The game is over but the result did not persist; this is
		// fatal to the request, not to the game.
		logger.Log.Errorf("Failed to record game result: %v", err)
		http.Error(w, "failed to record game result", http.StatusInternalServerError)
		return
	}

	s.monitor.ObserveRequestDuration(time.Since(start))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *GameServer) handleReset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	securityHeaders(w)
	sess := s.currentSession(w, r)
	sess.Game.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *GameServer) handleUploadQuestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	securityHeaders(w)
	sess := s.currentSession(w, r)
	g := sess.Game

	newItems := questionsFromRequest(r)
	if len(newItems) == 0 {
		g.SetMessage("No questions found. Use CSV with headers q,a or question,answer.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	g.Bank().Merge(newItems)
	g.SetMessage(fmt.Sprintf("Loaded %d questions. Now %d total.", len(newItems), g.Bank().Len()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// questionsFromRequest collects question items from an uploaded CSV
// file and/or pasted text. Malformed input simply contributes zero
// items.
func questionsFromRequest(r *http.Request) []models.QuestionItem {
	var newItems []models.QuestionItem

	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, uploadLimit))
		if err == nil {
			newItems = append(newItems, questions.ParseCSV(string(data))...)
		}
	}

	if pasted := strings.TrimSpace(r.FormValue("pasted")); pasted != "" {
		newItems = append(newItems, questions.ParseCSV(pasted)...)
	}

	return newItems
}

func (s *GameServer) handleExportScoreboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	securityHeaders(w)
	entries, err := s.scoreService.AllScores()
	if err != nil {
		logger.Log.Errorf("Failed to export scoreboard: %v", err)
		http.Error(w, "scoreboard unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="scoreboard.csv"`)
	if err := services.WriteScoreboardCSV(w, entries); err != nil {
		logger.Log.Errorf("Failed to write scoreboard CSV: %v", err)
	}
}

// requireAdmin validates the shared-secret token from the query string
// or the X-Admin-Token header. An unconfigured token rejects everything.
func (s *GameServer) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	securityHeaders(w)
	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("X-Admin-Token")
	}

	configured := s.cfg.Admin.Token
	if configured == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(configured)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func (s *GameServer) handleAdminReset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.requireAdmin(w, r) {
		return
	}

	if err := s.scoreService.DeleteAll(); err != nil {
		logger.Log.Errorf("Failed to clear scoreboard: %v", err)
		http.Error(w, "failed to clear scoreboard", http.StatusInternalServerError)
		return
	}

	logger.Log.Info("Scoreboard cleared by admin")
	fmt.Fprintln(w, "Scoreboard cleared.")
}

func (s *GameServer) handleAdminDeletePlayer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.requireAdmin(w, r) {
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Error(w, "Missing ?name=", http.StatusBadRequest)
		return
	}

	if err := s.scoreService.DeleteByName(name); err != nil {
		logger.Log.Errorf("Failed to delete player %q: %v", name, err)
		http.Error(w, "failed to delete player", http.StatusInternalServerError)
		return
	}

	logger.Log.Infof("Player %q deleted by admin", name)
	fmt.Fprintf(w, "Deleted player: %s\n", name)
}

func (s *GameServer) handleAdminImportScoreboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.requireAdmin(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, uploadLimit)

	var reader io.Reader = r.Body
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		reader = file
	}

	entries, err := services.ParseScoreboardCSV(reader)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid scoreboard CSV: %v", err), http.StatusBadRequest)
		return
	}
	if len(entries) == 0 {
		http.Error(w, "no rows to import", http.StatusBadRequest)
		return
	}

	if err := s.scoreService.RestoreScores(entries); err != nil {
		logger.Log.Errorf("Failed to restore scoreboard: %v", err)
		http.Error(w, "failed to restore scoreboard", http.StatusInternalServerError)
		return
	}

	logger.Log.Infof("Scoreboard restored by admin: %d rows", len(entries))
	fmt.Fprintf(w, "Imported %d players.\n", len(entries))
}

func (s *GameServer) handleHealthCheck(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	securityHeaders(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "Ok")
}

func (s *GameServer) handleVersion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	securityHeaders(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "quizboard v%s\n", ReleaseVersion)
}
