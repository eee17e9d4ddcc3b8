// server/html.go
package server

import (
	"html/template"
	"net/http"

	"github.com/wfunc/quizboard/logger"
	"github.com/wfunc/quizboard/models"
)

type pageData struct {
	Players         []models.PlayerToken
	Turn            int
	AwaitingAnswer  bool
	CurrentQuestion string
	CurrentPlayer   string
	LastRoll        int
	Message         string
	BoardSize       int
	QuestionsCount  int
	Scoreboard      []models.ScoreboardEntry
	Winner          string
	Version         string
}

var pageTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Quizboard</title>
<style>
body{font-family:sans-serif;max-width:720px;margin:2em auto;padding:0 1em;}
table{border-collapse:collapse;}td,th{border:1px solid #ccc;padding:4px 10px;}
.msg{background:#f5f5c0;padding:8px;margin:1em 0;}
.winner{background:#c0f5c8;padding:8px;margin:1em 0;font-weight:bold;}
.token{display:inline-block;margin-right:1em;}
form{margin:0.5em 0;}
</style>
</head>
<body>
<h1>Quizboard</h1>
{{if .Message}}<div class="msg">{{.Message}}</div>{{end}}
{{if .Winner}}<div class="winner">{{.Winner}} wins!</div>{{end}}

{{if .Players}}
<h2>Board (finish at {{.BoardSize}})</h2>
{{range $i, $p := .Players}}
<div class="token">{{$p.Name}}: {{$p.Pos}}/{{$.BoardSize}}{{if eq $i $.Turn}} &larr; turn{{end}}</div>
{{end}}

{{if .AwaitingAnswer}}
<h2>Question for {{.CurrentPlayer}} (rolled {{.LastRoll}})</h2>
<p>{{.CurrentQuestion}}</p>
<form method="post" action="/answer">
<input name="answer" autofocus autocomplete="off">
<button type="submit">Answer</button>
</form>
{{else if not .Winner}}
<form method="post" action="/roll"><button type="submit">Roll the die</button></form>
{{end}}

<form method="post" action="/reset"><button type="submit">New game</button></form>
{{else}}
<h2>Set up players (1&ndash;4)</h2>
<form method="post" action="/setup">
<input name="name1" placeholder="Player 1">
<input name="name2" placeholder="Player 2">
<input name="name3" placeholder="Player 3">
<input name="name4" placeholder="Player 4">
<button type="submit">Start</button>
</form>
{{end}}

<h2>Questions ({{.QuestionsCount}} in pool)</h2>
<form method="post" action="/upload_questions" enctype="multipart/form-data">
<input type="file" name="file" accept=".csv,text/csv">
<textarea name="pasted" rows="3" cols="40" placeholder="q,a&#10;3 + 4,7"></textarea>
<button type="submit">Upload</button>
</form>

<h2>Scoreboard</h2>
<table>
<tr><th>#</th><th>Name</th><th>Wins</th><th>Played</th><th>Win %</th></tr>
{{range $i, $e := .Scoreboard}}
<tr><td>{{inc $i}}</td><td>{{$e.Name}}</td><td>{{$e.Wins}}</td><td>{{$e.GamesPlayed}}</td><td>{{printf "%.1f" $e.WinRate}}</td></tr>
{{end}}
</table>
<p><a href="/export_scoreboard.csv">Export CSV</a></p>

<footer><small>quizboard v{{.Version}}</small></footer>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.Log.Errorf("Failed to render page: %v", err)
	}
}
