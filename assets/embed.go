package assets

import "embed"

//go:embed questions.json
var fs embed.FS

// QuestionPack returns the embedded default question pack (JSON array).
// Used when no QUESTIONS_FILE is configured and the database holds no
// questions, so the server always has something to serve.
func QuestionPack() ([]byte, error) {
	return fs.ReadFile("questions.json")
}
